package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/parser"
)

func TestBuildRecognizer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		backend string
		check   func(t *testing.T, ner parser.NamedEntityRecognizer, err error)
	}{
		{backend: "", check: func(t *testing.T, ner parser.NamedEntityRecognizer, err error) {
			require.NoError(t, err)
			assert.IsType(t, &parser.ProseRecognizer{}, ner)
		}},
		{backend: NERBackendProse, check: func(t *testing.T, ner parser.NamedEntityRecognizer, err error) {
			require.NoError(t, err)
			assert.IsType(t, &parser.ProseRecognizer{}, ner)
		}},
		{backend: NERBackendNone, check: func(t *testing.T, ner parser.NamedEntityRecognizer, err error) {
			require.NoError(t, err)
			assert.IsType(t, parser.NopRecognizer{}, ner)
		}},
		{backend: NERBackendGemini, check: func(t *testing.T, _ parser.NamedEntityRecognizer, err error) {
			assert.ErrorContains(t, err, "api key is not configured")
		}},
		{backend: "spacy", check: func(t *testing.T, _ parser.NamedEntityRecognizer, err error) {
			assert.ErrorContains(t, err, "unknown NER backend")
		}},
	}

	for _, tt := range tests {
		t.Run("backend "+tt.backend, func(t *testing.T) {
			cfg := &config.Config{Parser: config.ParserConfig{NERBackend: tt.backend}}
			ner, err := BuildRecognizer(ctx, cfg)
			tt.check(t, ner, err)
		})
	}
}

func TestBuildFieldExtractorUsesGazetteerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gazetteer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [Go, Rust]\neducation_keywords: [Bootcamp]\n"), 0644))

	cfg := &config.Config{Parser: config.ParserConfig{
		GazetteerPath: path,
		NERBackend:    NERBackendNone,
		UnknownName:   "Unknown Name",
	}}

	fields, err := BuildFieldExtractor(context.Background(), cfg)
	require.NoError(t, err)

	rec := fields.Parse(context.Background(), "Go and Python\nRust Bootcamp 2020")
	assert.Equal(t, []string{"Go", "Rust"}, rec.Skills)
	assert.Equal(t, "Rust Bootcamp 2020", rec.Education)
	require.NotNil(t, rec.Name)
	assert.Equal(t, "Unknown Name", *rec.Name)
}

func TestBuildFieldExtractorMissingGazetteer(t *testing.T) {
	cfg := &config.Config{Parser: config.ParserConfig{
		GazetteerPath: filepath.Join(t.TempDir(), "missing.yaml"),
		NERBackend:    NERBackendNone,
	}}

	_, err := BuildFieldExtractor(context.Background(), cfg)

	assert.Error(t, err)
}
