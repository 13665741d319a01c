package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/parser"
	"alfredoptarigan/resume-parser/internal/repositories"
)

type ResumeService interface {
	// ProcessUpload stores, extracts, parses and persists one uploaded resume.
	ProcessUpload(ctx context.Context, file *multipart.FileHeader) (*models.Candidate, error)
	// ImportFile runs the same pipeline for a resume already on local disk.
	ImportFile(ctx context.Context, path string) (*models.Candidate, error)
	ListCandidates() ([]models.Candidate, error)
	SearchCandidates(query string) ([]models.Candidate, error)
	GetCandidate(id uuid.UUID) (*models.Candidate, error)
	DeleteCandidate(id uuid.UUID) error
	ClearAll() (int64, error)
}

type resumeService struct {
	candidateRepo  repositories.CandidateRepository
	docRepo        repositories.DocumentRepository
	storageService StorageService
	extractor      parser.TextExtractor
	fields         parser.FieldExtractor
	maxFileSize    int64
}

func NewResumeService(
	candidateRepo repositories.CandidateRepository,
	docRepo repositories.DocumentRepository,
	storageService StorageService,
	extractor parser.TextExtractor,
	fields parser.FieldExtractor,
	maxFileSize int64,
) ResumeService {
	return &resumeService{
		candidateRepo:  candidateRepo,
		docRepo:        docRepo,
		storageService: storageService,
		extractor:      extractor,
		fields:         fields,
		maxFileSize:    maxFileSize,
	}
}

func (s *resumeService) ProcessUpload(ctx context.Context, file *multipart.FileHeader) (*models.Candidate, error) {
	if file == nil || file.Filename == "" {
		return nil, newUploadError("validate", "", ErrEmptyUpload)
	}
	if err := s.validate(file.Filename, file.Size); err != nil {
		return nil, err
	}

	filename, filePath, err := s.storageService.SaveFile(file)
	if err != nil {
		return nil, newUploadError("save", file.Filename, err)
	}

	return s.process(ctx, file.Filename, filename, filePath)
}

func (s *resumeService) ImportFile(ctx context.Context, path string) (*models.Candidate, error) {
	originalName := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, newUploadError("open", originalName, err)
	}
	if info.IsDir() {
		return nil, newUploadError("validate", originalName, ErrUnsupportedFile)
	}
	if err := s.validate(originalName, info.Size()); err != nil {
		return nil, err
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, newUploadError("open", originalName, err)
	}
	defer src.Close()

	filename, filePath, err := s.storageService.SaveReader(src, originalName)
	if err != nil {
		return nil, newUploadError("save", originalName, err)
	}

	return s.process(ctx, originalName, filename, filePath)
}

func (s *resumeService) validate(originalName string, size int64) error {
	if !parser.DeclaredTypeFromFilename(originalName).Supported() {
		return newUploadError("validate", originalName, ErrUnsupportedFile)
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return newUploadError("validate", originalName,
			fmt.Errorf("%w (%d > %d bytes)", ErrFileTooLarge, size, s.maxFileSize))
	}
	return nil
}

func (s *resumeService) process(ctx context.Context, originalName, filename, filePath string) (*models.Candidate, error) {
	declared := parser.DeclaredTypeFromFilename(originalName)

	doc := &models.Document{
		Filename:         filename,
		OriginalFilename: originalName,
		FileType:         string(declared),
		FilePath:         filePath,
		Status:           models.StatusUploaded,
	}
	if err := s.docRepo.Create(doc); err != nil {
		// Cleanup uploaded file if database insert fails
		s.storageService.DeleteFile(filename)
		return nil, newUploadError("persist", originalName, err)
	}

	log := logger.With().
		Str("document_id", doc.ID.String()).
		Str("file", originalName).
		Logger()
	ctx = logger.WithContext(ctx, log)

	pages, err := s.extractor.ExtractPages(ctx, filePath, declared)
	if err != nil {
		log.Warn().Err(err).Msg("resume could not be read")
		if markErr := s.docRepo.MarkFailed(doc.ID, err.Error()); markErr != nil {
			log.Error().Err(markErr).Msg("failed to record extraction failure")
		}
		return nil, newUploadError("extract", originalName, err)
	}

	rec := s.fields.ParsePages(ctx, pages)

	candidate := models.NewCandidate(doc, rec)
	if err := s.candidateRepo.Create(candidate); err != nil {
		if markErr := s.docRepo.MarkFailed(doc.ID, err.Error()); markErr != nil {
			log.Error().Err(markErr).Msg("failed to record persistence failure")
		}
		return nil, newUploadError("persist", originalName, err)
	}

	if err := s.docRepo.MarkParsed(doc.ID, candidate.ID); err != nil {
		log.Error().Err(err).Msg("failed to mark document parsed")
	}

	log.Info().
		Str("candidate_id", candidate.ID.String()).
		Int("skills", len(candidate.Skills)).
		Bool("name_found", rec.Name != nil).
		Bool("email_found", rec.Email != nil).
		Msg("resume parsed")

	return candidate, nil
}

func (s *resumeService) ListCandidates() ([]models.Candidate, error) {
	return s.candidateRepo.FindAll()
}

func (s *resumeService) SearchCandidates(query string) ([]models.Candidate, error) {
	return s.candidateRepo.SearchBySkill(query)
}

func (s *resumeService) GetCandidate(id uuid.UUID) (*models.Candidate, error) {
	return s.candidateRepo.FindByID(id)
}

// DeleteCandidate removes the candidate, its document row and the stored file.
func (s *resumeService) DeleteCandidate(id uuid.UUID) error {
	candidate, err := s.candidateRepo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.candidateRepo.Delete(id); err != nil {
		return err
	}

	if err := s.docRepo.Delete(candidate.DocumentID); err != nil {
		logger.Warn().Err(err).Str("document_id", candidate.DocumentID.String()).Msg("failed to delete document row")
	}
	if candidate.Filename != "" {
		if err := s.storageService.DeleteFile(candidate.Filename); err != nil {
			logger.Warn().Err(err).Str("file", candidate.Filename).Msg("failed to delete stored file")
		}
	}
	return nil
}

// ClearAll deletes every candidate and document and empties the upload directory.
// It returns the number of candidates removed.
func (s *resumeService) ClearAll() (int64, error) {
	n, err := s.candidateRepo.DeleteAll()
	if err != nil {
		return 0, err
	}

	var errs []error
	if _, err := s.docRepo.DeleteAll(); err != nil {
		errs = append(errs, err)
	}
	if err := s.storageService.Clear(); err != nil {
		errs = append(errs, err)
	}

	logger.Info().Int64("candidates", n).Msg("all resume data cleared")
	return n, errors.Join(errs...)
}
