package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGazetteer(t *testing.T) {
	g := DefaultGazetteer()

	assert.Contains(t, g.Skills, "Machine Learning")
	assert.Contains(t, g.Skills, "Kubernetes")
	assert.Equal(t, []string{"Bachelor", "Master", "B.Tech", "M.Tech", "PhD", "University", "College"}, g.EducationKeywords)

	// Callers get their own copy.
	g.Skills[0] = "changed"
	assert.Equal(t, "Python", DefaultGazetteer().Skills[0])
}

func TestLoadGazetteer(t *testing.T) {
	content := `
skills:
  - Go
  - "  Rust  "
  - Go
  - ""
education_keywords:
  - Diploma
`
	path := filepath.Join(t.TempDir(), "gazetteer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	g, err := LoadGazetteer(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, g.Skills)
	assert.Equal(t, []string{"Diploma"}, g.EducationKeywords)
}

func TestParseGazetteerKeepsDefaultsForMissingLists(t *testing.T) {
	g, err := ParseGazetteer([]byte("education_keywords: [Diploma]\n"))

	require.NoError(t, err)
	assert.Equal(t, DefaultGazetteer().Skills, g.Skills)
	assert.Equal(t, []string{"Diploma"}, g.EducationKeywords)
}

func TestLoadGazetteerErrors(t *testing.T) {
	_, err := LoadGazetteer(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseGazetteer([]byte("skills: [unterminated"))
	assert.Error(t, err)
}
