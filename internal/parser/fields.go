package parser

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"alfredoptarigan/resume-parser/internal/logger"
)

// EducationNotFound is the education value when no keyword line exists.
const EducationNotFound = "Not found"

// DefaultHeaderWindow is the header size used when the window is switched on without a size.
const DefaultHeaderWindow = 500

var emailPattern = regexp.MustCompile(`[\w.%+-]+@[\w.-]+\.[A-Za-z]{2,}`)

// Record is the structured output for one resume. Every field is filled
// independently; a miss leaves the field nil or at its default.
type Record struct {
	Name      *string  `json:"name"`
	Email     *string  `json:"email"`
	Skills    []string `json:"skills"`
	Education string   `json:"education"`
}

type Options struct {
	// HeaderWindow restricts name detection to the first N runes of the first
	// page and enables the proper-noun pair search. Zero searches the whole text.
	HeaderWindow int
	// CaseInsensitiveSkills matches gazetteer terms ignoring case.
	CaseInsensitiveSkills bool
	// UnknownName replaces a missing name when non-empty.
	UnknownName string
}

type FieldExtractor interface {
	Parse(ctx context.Context, text string) *Record
	// ParsePages is Parse over pages joined with "\n"; the header window
	// is taken from the first page.
	ParsePages(ctx context.Context, pages []string) *Record
}

type skillPattern struct {
	re *regexp.Regexp
}

type fieldExtractor struct {
	ner       NamedEntityRecognizer
	gazetteer *Gazetteer
	opts      Options
	skills    []skillPattern
}

func NewFieldExtractor(ner NamedEntityRecognizer, gazetteer *Gazetteer, opts Options) FieldExtractor {
	if ner == nil {
		ner = NopRecognizer{}
	}
	if gazetteer == nil {
		gazetteer = DefaultGazetteer()
	}

	p := &fieldExtractor{
		ner:       ner,
		gazetteer: gazetteer,
		opts:      opts,
	}
	for _, term := range gazetteer.Skills {
		p.skills = append(p.skills, skillPattern{re: compileTerm(term, opts.CaseInsensitiveSkills)})
	}
	return p
}

// compileTerm builds a phrase pattern for term. Words of a multi-word term may be
// separated by spaces or tabs but never by a line break.
func compileTerm(term string, caseInsensitive bool) *regexp.Regexp {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	expr := strings.Join(words, `[ \t]+`)
	if caseInsensitive {
		expr = "(?i)" + expr
	}
	return regexp.MustCompile(expr)
}

func (p *fieldExtractor) Parse(ctx context.Context, text string) *Record {
	return p.parse(ctx, text, text)
}

func (p *fieldExtractor) ParsePages(ctx context.Context, pages []string) *Record {
	if len(pages) == 0 {
		return p.parse(ctx, "", "")
	}
	return p.parse(ctx, strings.Join(pages, "\n"), pages[0])
}

func (p *fieldExtractor) parse(ctx context.Context, text, firstPage string) *Record {
	rec := &Record{
		Name:      p.extractName(ctx, text, firstPage),
		Email:     extractEmail(text),
		Skills:    p.extractSkills(text),
		Education: p.extractEducation(text),
	}
	if rec.Name == nil && p.opts.UnknownName != "" {
		name := p.opts.UnknownName
		rec.Name = &name
	}
	return rec
}

func (p *fieldExtractor) extractName(ctx context.Context, text, firstPage string) *string {
	input := text
	if p.opts.HeaderWindow > 0 {
		input = headerWindow(firstPage, p.opts.HeaderWindow)
		if tagger, ok := p.ner.(Tagger); ok {
			if name := properNounPair(ctx, tagger, input); name != "" {
				return &name
			}
		}
	}

	if strings.TrimSpace(input) == "" {
		return nil
	}

	ents, err := p.ner.Recognize(ctx, input)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("entity recognition failed, leaving name unset")
		return nil
	}

	for _, ent := range ents {
		if ent.Label != LabelPerson {
			continue
		}
		if name := strings.TrimSpace(ent.Text); name != "" {
			return &name
		}
	}
	return nil
}

// headerWindow returns at most n runes from the start of s.
func headerWindow(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func properNounPair(ctx context.Context, tagger Tagger, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	toks, err := tagger.Tag(ctx, text)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("part-of-speech tagging failed")
		return ""
	}

	for i := 0; i+1 < len(toks); i++ {
		if isProperNoun(toks[i].Tag) && isProperNoun(toks[i+1].Tag) {
			return toks[i].Text + " " + toks[i+1].Text
		}
	}
	return ""
}

func extractEmail(text string) *string {
	match := emailPattern.FindString(text)
	if match == "" {
		return nil
	}
	return &match
}

// extractSkills returns each matched term once. Inner whitespace of a match is
// collapsed to one space; with case-insensitive matching the first spelling wins.
func (p *fieldExtractor) extractSkills(text string) []string {
	seen := make(map[string]string)
	for _, sp := range p.skills {
		for _, loc := range sp.re.FindAllStringIndex(text, -1) {
			if !onTokenBoundary(text, loc[0], loc[1]) {
				continue
			}
			match := strings.Join(strings.Fields(text[loc[0]:loc[1]]), " ")
			key := match
			if p.opts.CaseInsensitiveSkills {
				key = strings.ToLower(match)
			}
			if _, ok := seen[key]; !ok {
				seen[key] = match
			}
		}
	}

	skills := make([]string, 0, len(seen))
	for _, s := range seen {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}

// onTokenBoundary reports whether text[start:end] is not glued to a word character.
func onTokenBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// extractEducation returns the first line holding an education keyword.
// Resumes are assumed to list the highest degree first; reverse-chronological
// layouts can therefore yield a lower degree.
func (p *fieldExtractor) extractEducation(text string) string {
	for _, line := range strings.Split(text, "\n") {
		for _, kw := range p.gazetteer.EducationKeywords {
			if strings.Contains(line, kw) {
				return strings.TrimSpace(line)
			}
		}
	}
	return EducationNotFound
}
