package parser

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gazetteer holds the term lists used by the field extractor. It is loaded once
// at start and treated as read-only afterwards.
type Gazetteer struct {
	Skills            []string `yaml:"skills" json:"skills"`
	EducationKeywords []string `yaml:"education_keywords" json:"education_keywords"`
}

var (
	defaultSkills = []string{
		"Python", "Java", "Flask", "Django", "SQL", "Machine Learning",
		"React", "AWS", "Docker", "Kubernetes",
	}
	defaultEducationKeywords = []string{
		"Bachelor", "Master", "B.Tech", "M.Tech", "PhD", "University", "College",
	}
)

func DefaultGazetteer() *Gazetteer {
	return &Gazetteer{
		Skills:            append([]string(nil), defaultSkills...),
		EducationKeywords: append([]string(nil), defaultEducationKeywords...),
	}
}

// LoadGazetteer reads a YAML gazetteer file. A list missing from the file keeps its default.
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gazetteer %s: %w", path, err)
	}
	return ParseGazetteer(data)
}

func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse gazetteer: %w", err)
	}

	g.Skills = normalizeTerms(g.Skills)
	g.EducationKeywords = normalizeTerms(g.EducationKeywords)

	if len(g.Skills) == 0 {
		g.Skills = append([]string(nil), defaultSkills...)
	}
	if len(g.EducationKeywords) == 0 {
		g.EducationKeywords = append([]string(nil), defaultEducationKeywords...)
	}

	return &g, nil
}

// normalizeTerms trims entries and drops blanks and duplicates, keeping first-seen order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
