package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-parser/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(id uuid.UUID) (*models.Document, error)
	MarkParsed(id uuid.UUID, candidateID uuid.UUID) error
	MarkFailed(id uuid.UUID, errorMsg string) error
	Delete(id uuid.UUID) error
	DeleteAll() (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// MarkParsed implements DocumentRepository.
func (d *documentRepository) MarkParsed(id uuid.UUID, candidateID uuid.UUID) error {
	return d.update(id, map[string]interface{}{
		"status":       models.StatusParsed,
		"candidate_id": candidateID,
		"updated_at":   time.Now(),
	})
}

// MarkFailed implements DocumentRepository.
func (d *documentRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	return d.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (d *documentRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := d.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update document: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}

	return nil
}

// Delete implements DocumentRepository.
func (d *documentRepository) Delete(id uuid.UUID) error {
	if err := d.db.Where("id = ?", id).Delete(&models.Document{}).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

// DeleteAll implements DocumentRepository.
func (d *documentRepository) DeleteAll() (int64, error) {
	result := d.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Document{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", result.Error)
	}

	return result.RowsAffected, nil
}
