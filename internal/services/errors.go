package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyUpload     = errors.New("no resume file uploaded")
	ErrUnsupportedFile = errors.New("unsupported file type, upload a PDF or DOCX resume")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
)

// UploadError carries the failing step of an upload together with its cause.
type UploadError struct {
	Op       string
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Filename, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func newUploadError(op, filename string, err error) error {
	return &UploadError{Op: op, Filename: filename, Err: err}
}
