package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/parser"
	"alfredoptarigan/resume-parser/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// fakeExtractor returns fixed pages, or a read error for paths listed in failOn.
type fakeExtractor struct {
	mu     sync.Mutex
	pages  []string
	failOn map[string]bool
	calls  []string
}

func (f *fakeExtractor) ExtractText(ctx context.Context, path string, declared parser.DeclaredType) (string, error) {
	pages, err := f.ExtractPages(ctx, path, declared)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

func (f *fakeExtractor) ExtractPages(_ context.Context, path string, declared parser.DeclaredType) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, path)
	if f.failOn[string(declared)] {
		return nil, &parser.DocumentReadError{Path: path, Type: declared, Err: fmt.Errorf("malformed document")}
	}
	return f.pages, nil
}

type testEnv struct {
	db         *gorm.DB
	uploadDir  string
	extractor  *fakeExtractor
	candidates repositories.CandidateRepository
	documents  repositories.DocumentRepository
	storage    StorageService
	service    ResumeService
}

const testResumeText = "John Smith\njohn.smith@example.com\nSkills: Python, AWS\nBachelor of Science, MIT"

func newTestEnv(t *testing.T, maxFileSize int64) *testEnv {
	t.Helper()

	env := &testEnv{
		db:        newTestDB(t),
		uploadDir: t.TempDir(),
		extractor: &fakeExtractor{pages: []string{testResumeText}, failOn: map[string]bool{}},
	}
	env.candidates = repositories.NewCandidateRepository(env.db)
	env.documents = repositories.NewDocumentRepository(env.db)
	env.storage = NewStorageService(env.uploadDir)
	require.NoError(t, env.storage.EnsureUploadDir())

	fields := parser.NewFieldExtractor(
		parser.StaticRecognizer{Names: []string{"John Smith"}},
		parser.DefaultGazetteer(),
		parser.Options{},
	)
	env.service = NewResumeService(env.candidates, env.documents, env.storage, env.extractor, fields, maxFileSize)
	return env
}

func newFileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File[field][0]
}
