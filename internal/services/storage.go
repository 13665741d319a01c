package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/resume-parser/internal/parser"
)

type StorageService interface {
	SaveFile(file *multipart.FileHeader) (string, string, error)
	SaveReader(r io.Reader, originalName string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	Clear() error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile stores an uploaded resume under a unique name and returns that
// name and the full path.
func (s *storageService) SaveFile(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.SaveReader(src, file.Filename)
}

func (s *storageService) SaveReader(r io.Reader, originalName string) (string, string, error) {
	declared := parser.DeclaredTypeFromFilename(originalName)
	if !declared.Supported() {
		return "", "", fmt.Errorf("invalid file extension %q: %w", filepath.Ext(originalName), ErrUnsupportedFile)
	}

	// Generate the unique filename
	ext := strings.ToLower(filepath.Ext(originalName))
	uniqueFilename := fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(filePath)
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Clear removes every stored file and leaves an empty upload directory.
func (s *storageService) Clear() error {
	entries, err := os.ReadDir(s.uploadPath)
	if err != nil {
		if os.IsNotExist(err) {
			return s.EnsureUploadDir()
		}
		return fmt.Errorf("failed to read upload directory: %w", err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.uploadPath, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}
