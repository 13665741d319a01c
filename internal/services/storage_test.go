package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageSaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewStorageService(dir)
	require.NoError(t, s.EnsureUploadDir())

	name, path, err := s.SaveReader(strings.NewReader("resume"), "My CV.DOCX")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "resume_"))
	assert.Equal(t, ".docx", filepath.Ext(name))
	assert.Equal(t, s.GetFilePath(name), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "resume", string(data))

	require.NoError(t, s.DeleteFile(name))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.DeleteFile(name), "deleting a missing file is not an error")
}

func TestStorageRejectsUnsupported(t *testing.T) {
	s := NewStorageService(t.TempDir())

	_, _, err := s.SaveReader(strings.NewReader("x"), "resume.odt")

	assert.True(t, errors.Is(err, ErrUnsupportedFile))
}

func TestStorageGetFilePathStaysInUploadDir(t *testing.T) {
	s := NewStorageService("/srv/uploads")

	assert.Equal(t, filepath.Join("/srv/uploads", "passwd"), s.GetFilePath("../../etc/passwd"))
}

func TestStorageClear(t *testing.T) {
	dir := t.TempDir()
	s := NewStorageService(dir)
	for _, n := range []string{"a.pdf", "b.docx"} {
		_, _, err := s.SaveReader(strings.NewReader(n), n)
		require.NoError(t, err)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	require.NoError(t, s.Clear())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	missing := NewStorageService(filepath.Join(dir, "later"))
	require.NoError(t, missing.Clear())
	_, err = os.Stat(filepath.Join(dir, "later"))
	assert.NoError(t, err)
}
