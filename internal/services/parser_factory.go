package services

import (
	"context"
	"fmt"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/parser"
)

const (
	NERBackendProse  = "prose"
	NERBackendGemini = "gemini"
	NERBackendNone   = "none"
)

// BuildTextExtractor configures the document reader from cfg.
func BuildTextExtractor(cfg *config.Config) parser.TextExtractor {
	return parser.NewTextExtractor(parser.WithTimeout(cfg.Parser.ExtractionTimeout))
}

// BuildFieldExtractor loads the gazetteer and selects the entity recognizer named by
// cfg.Parser.NERBackend.
func BuildFieldExtractor(ctx context.Context, cfg *config.Config) (parser.FieldExtractor, error) {
	gazetteer := parser.DefaultGazetteer()
	if cfg.Parser.GazetteerPath != "" {
		g, err := parser.LoadGazetteer(cfg.Parser.GazetteerPath)
		if err != nil {
			return nil, err
		}
		gazetteer = g
		logger.Info().
			Str("path", cfg.Parser.GazetteerPath).
			Int("skills", len(g.Skills)).
			Int("education_keywords", len(g.EducationKeywords)).
			Msg("gazetteer loaded")
	}

	ner, err := BuildRecognizer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return parser.NewFieldExtractor(ner, gazetteer, parser.Options{
		HeaderWindow:          cfg.Parser.HeaderWindow,
		CaseInsensitiveSkills: cfg.Parser.CaseInsensitiveSkills,
		UnknownName:           cfg.Parser.UnknownName,
	}), nil
}

func BuildRecognizer(ctx context.Context, cfg *config.Config) (parser.NamedEntityRecognizer, error) {
	switch cfg.Parser.NERBackend {
	case NERBackendProse, "":
		logger.Info().Msg("using prose entity recognizer")
		return parser.NewProseRecognizer(), nil
	case NERBackendGemini:
		gemini, err := NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini recognizer: %w", err)
		}
		logger.Info().Str("model", cfg.Gemini.Model).Msg("using gemini entity recognizer")
		return NewGeminiRecognizer(gemini, cfg.Gemini.MaxRetries), nil
	case NERBackendNone:
		logger.Info().Msg("entity recognition disabled")
		return parser.NopRecognizer{}, nil
	default:
		return nil, fmt.Errorf("unknown NER backend %q (want prose, gemini or none)", cfg.Parser.NERBackend)
	}
}
