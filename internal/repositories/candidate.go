package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-parser/internal/models"
)

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	FindByID(id uuid.UUID) (*models.Candidate, error)
	FindAll() ([]models.Candidate, error)
	SearchBySkill(query string) ([]models.Candidate, error)
	Delete(id uuid.UUID) error
	DeleteAll() (int64, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var c models.Candidate
	if err := r.db.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &c, nil
}

func (r *candidateRepository) FindAll() ([]models.Candidate, error) {
	var cs []models.Candidate
	if err := r.db.Order("created_at ASC").Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return cs, nil
}

// SearchBySkill matches query as a case-insensitive substring of the stored
// skills JSON text. LIKE wildcards in query are matched literally.
func (r *candidateRepository) SearchBySkill(query string) ([]models.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Candidate{}, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var cs []models.Candidate
	err := r.db.
		Where(`LOWER(CAST(skills AS TEXT)) LIKE ? ESCAPE '\'`, pattern).
		Order("created_at ASC").
		Find(&cs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}
	return cs, nil
}

func (r *candidateRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Candidate{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *candidateRepository) DeleteAll() (int64, error) {
	result := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Candidate{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete candidates: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
