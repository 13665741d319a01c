package parser

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"alfredoptarigan/resume-parser/internal/logger"
)

// DeclaredType is the document type announced by the upload, derived from its extension.
type DeclaredType string

const (
	TypePDF     DeclaredType = "pdf"
	TypeDOCX    DeclaredType = "docx"
	TypeUnknown DeclaredType = ""
)

// DeclaredTypeFromFilename maps .pdf and .docx (any case) to their types.
func DeclaredTypeFromFilename(name string) DeclaredType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	default:
		return TypeUnknown
	}
}

// Supported reports whether t can be extracted.
func (t DeclaredType) Supported() bool {
	return t == TypePDF || t == TypeDOCX
}

type TextExtractor interface {
	// ExtractText returns the document text. PDF pages are joined with "\n".
	// Unsupported types yield "" and a nil error.
	ExtractText(ctx context.Context, path string, declared DeclaredType) (string, error)
	// ExtractPages returns the text of each page in order. DOCX is a single page.
	ExtractPages(ctx context.Context, path string, declared DeclaredType) ([]string, error)
}

type ExtractorOption func(*textExtractor)

// WithTimeout bounds a single extraction. Zero disables the deadline.
func WithTimeout(d time.Duration) ExtractorOption {
	return func(e *textExtractor) {
		e.timeout = d
	}
}

type textExtractor struct {
	timeout time.Duration
}

func NewTextExtractor(opts ...ExtractorOption) TextExtractor {
	e := &textExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *textExtractor) ExtractText(ctx context.Context, path string, declared DeclaredType) (string, error) {
	pages, err := e.ExtractPages(ctx, path, declared)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

func (e *textExtractor) ExtractPages(ctx context.Context, path string, declared DeclaredType) ([]string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	var (
		pages []string
		err   error
	)

	switch declared {
	case TypePDF:
		pages, err = readPDFPages(ctx, path)
	case TypeDOCX:
		var text string
		text, err = readDOCXText(ctx, path)
		if err == nil {
			pages = []string{text}
		}
	default:
		logger.Ctx(ctx).Debug().Str("path", path).Msg("unsupported document type, returning empty text")
		return nil, nil
	}

	if err != nil {
		return nil, newReadError(path, declared, err)
	}

	logger.Ctx(ctx).Debug().
		Str("path", path).
		Str("type", string(declared)).
		Int("pages", len(pages)).
		Dur("elapsed", time.Since(start)).
		Msg("document text extracted")

	return pages, nil
}
