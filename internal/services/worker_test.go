package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportWorker(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	dir := t.TempDir()

	var paths []string
	for _, name := range []string{"a.pdf", "b.docx", "c.txt", "d.pdf"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
		paths = append(paths, p)
	}

	w := NewImportWorker(env.service, 2)
	w.Start(context.Background())
	for _, p := range paths {
		w.Enqueue(p)
	}
	results := w.Stop()

	require.Len(t, results, len(paths))
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	for _, res := range results {
		if filepath.Ext(res.Path) == ".txt" {
			assert.True(t, errors.Is(res.Err, ErrUnsupportedFile))
			assert.Empty(t, res.CandidateID)
			continue
		}
		assert.NoError(t, res.Err, res.Path)
		assert.NotEmpty(t, res.CandidateID)
	}

	all, err := env.service.ListCandidates()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Len(t, w.Stop(), len(paths), "stop is idempotent")
}

func TestImportWorkerCanceled(t *testing.T) {
	env := newTestEnv(t, 1<<20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewImportWorker(env.service, 0)
	w.Start(ctx)
	w.Enqueue(filepath.Join(t.TempDir(), "a.pdf"))
	results := w.Stop()

	require.Len(t, results, 1)
	assert.True(t, errors.Is(results[0].Err, context.Canceled))
}
