package parser

import (
	"errors"
	"fmt"
)

// ErrDocumentRead is the base error for documents that cannot be opened or decoded.
var ErrDocumentRead = errors.New("failed to read document")

// DocumentReadError is returned when the source document cannot be opened or decoded.
// The upload it belongs to must not be persisted.
type DocumentReadError struct {
	Path string
	Type DeclaredType
	Err  error
}

func (e *DocumentReadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (type: %s, path: %s)", ErrDocumentRead, e.Type, e.Path)
	}
	return fmt.Sprintf("%s (type: %s, path: %s): %v", ErrDocumentRead, e.Type, e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrDocumentRead for any DocumentReadError.
func (e *DocumentReadError) Is(target error) bool {
	return target == ErrDocumentRead
}

func newReadError(path string, t DeclaredType, err error) error {
	return &DocumentReadError{Path: path, Type: t, Err: err}
}
