package parser

import (
	"context"
	"sort"
	"strings"
)

const (
	LabelPerson = "PERSON"
)

// Entity is a labelled span returned by a recognizer.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// NamedEntityRecognizer returns labelled spans for text, in document order.
type NamedEntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Token is a part-of-speech tagged token. Tags follow the Penn Treebank set.
type Token struct {
	Text string
	Tag  string
}

// Tagger is implemented by recognizers that can also tag parts of speech.
// The header-window name search uses it to find two consecutive proper nouns.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Token, error)
}

// NopRecognizer finds nothing. Names stay unset when it is used.
type NopRecognizer struct{}

func (NopRecognizer) Recognize(context.Context, string) ([]Entity, error) {
	return nil, nil
}

// StaticRecognizer labels every occurrence of a known name as PERSON, ordered by
// position in the text. It backs fixtures and the CLI's "static" backend.
type StaticRecognizer struct {
	Names []string
}

func (s StaticRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	for _, name := range s.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for from := 0; ; {
			i := strings.Index(text[from:], name)
			if i < 0 {
				break
			}
			hits = append(hits, hit{pos: from + i, name: name})
			from += i + len(name)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	ents := make([]Entity, 0, len(hits))
	for _, h := range hits {
		ents = append(ents, Entity{Text: h.name, Label: LabelPerson})
	}
	return ents, nil
}

func isProperNoun(tag string) bool {
	return tag == "NNP" || tag == "NNPS"
}
