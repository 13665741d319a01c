package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-parser/internal/parser"
)

// fakeGemini replies with responses in order and records prompts.
type fakeGemini struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeGemini) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return `{"entities": []}`, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

func TestGeminiRecognizerGroundsEntities(t *testing.T) {
	gemini := &fakeGemini{responses: []string{"```json\n" + `{"entities": [
		{"text": "Acme Corp", "label": "ORG"},
		{"text": "Jane Doe", "label": "person"},
		{"text": "Invented Name", "label": "PERSON"},
		{"text": "  ", "label": "PERSON"}
	]}` + "\n```"}}
	r := NewGeminiRecognizer(gemini, 3)

	ents, err := r.Recognize(context.Background(), "Jane Doe\nSoftware engineer at Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, []parser.Entity{
		{Text: "Jane Doe", Label: parser.LabelPerson},
		{Text: "Acme Corp", Label: "ORG"},
	}, ents)
	require.Len(t, gemini.prompts, 1)
	assert.Contains(t, gemini.prompts[0], "Software engineer at Acme Corp")
}

func TestGeminiRecognizerChunksLongText(t *testing.T) {
	gemini := &fakeGemini{responses: []string{
		`{"entities": [{"text": "Ann Lee", "label": "PERSON"}]}`,
		`[{"text": "Ann Lee", "label": "PERSON"}, {"text": "Bob Stone", "label": "PERSON"}]`,
	}}
	r := NewGeminiRecognizer(gemini, 1)
	r.chunkSize = 40

	text := "Ann Lee\nReferences available\n\nContact Ann Lee or Bob Stone"
	ents, err := r.Recognize(context.Background(), text)

	require.NoError(t, err)
	assert.Len(t, gemini.prompts, 2)
	assert.Equal(t, []parser.Entity{
		{Text: "Ann Lee", Label: parser.LabelPerson},
		{Text: "Bob Stone", Label: parser.LabelPerson},
	}, ents)
}

func TestGeminiRecognizerErrors(t *testing.T) {
	t.Run("request failure", func(t *testing.T) {
		r := NewGeminiRecognizer(&fakeGemini{err: errors.New("quota exceeded")}, 1)
		_, err := r.Recognize(context.Background(), "Jane Doe")
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("malformed response", func(t *testing.T) {
		r := NewGeminiRecognizer(&fakeGemini{responses: []string{"I cannot help with that"}}, 1)
		_, err := r.Recognize(context.Background(), "Jane Doe")
		assert.ErrorContains(t, err, "failed to parse entities")
	})
}

func TestGeminiRecognizerDegradesNameOnly(t *testing.T) {
	r := NewGeminiRecognizer(&fakeGemini{err: errors.New("unavailable")}, 1)
	p := parser.NewFieldExtractor(r, parser.DefaultGazetteer(), parser.Options{})

	rec := p.Parse(context.Background(), testResumeText)

	assert.Nil(t, rec.Name)
	require.NotNil(t, rec.Email)
	assert.Equal(t, []string{"AWS", "Python"}, rec.Skills)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around object", in: `Here you go: {"a":1} hope it helps`, want: `{"a":1}`},
		{name: "array of objects", in: `[{"a":1},{"a":2}]`, want: `[{"a":1},{"a":2}]`},
		{name: "no json", in: "  nothing  ", want: "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

// flakyGenerator fails a fixed number of times before succeeding.
type flakyGenerator struct {
	failures int
	calls    int
}

func (f *flakyGenerator) GenerateText(context.Context, string, float32) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("temporary failure")
	}
	return "ok", nil
}

func TestRetryGenerate(t *testing.T) {
	t.Run("succeeds after retries", func(t *testing.T) {
		gen := &flakyGenerator{failures: 2}
		out, err := retryGenerate(context.Background(), gen, time.Millisecond, "p", 0, 3)
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 3, gen.calls)
	})

	t.Run("gives up", func(t *testing.T) {
		gen := &flakyGenerator{failures: 5}
		_, err := retryGenerate(context.Background(), gen, time.Millisecond, "p", 0, 2)
		assert.ErrorContains(t, err, "failed after 2 attempts")
		assert.Equal(t, 2, gen.calls)
	})

	t.Run("stops on cancel", func(t *testing.T) {
		gen := &flakyGenerator{failures: 5}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := retryGenerate(ctx, gen, time.Hour, "p", 0, 3)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, gen.calls)
	})

	t.Run("at least one attempt", func(t *testing.T) {
		gen := &flakyGenerator{}
		_, err := retryGenerate(context.Background(), gen, time.Millisecond, "p", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, gen.calls)
	})
}

func TestBuildEntityPrompt(t *testing.T) {
	prompt := NewPromptBuilder().BuildEntityPrompt("Jane Doe, Engineer")

	assert.Contains(t, prompt, "Jane Doe, Engineer")
	assert.True(t, strings.Contains(prompt, `"entities"`))
}
