package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/resume-parser/internal/parser"
)

const UnknownName = "Unknown Name"

// Candidate is the persisted form of a parsed resume. It is never updated after creation.
type Candidate struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID       uuid.UUID                   `gorm:"type:uuid;index" json:"document_id"`
	Name             *string                     `gorm:"type:text" json:"name"`
	Email            *string                     `gorm:"type:text" json:"email"`
	Skills           datatypes.JSONSlice[string] `json:"skills"`
	Education        string                      `gorm:"type:text" json:"education"`
	Filename         string                      `gorm:"type:text" json:"filename"`
	OriginalFilename string                      `gorm:"type:text" json:"original_filename"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Skills == nil {
		c.Skills = datatypes.JSONSlice[string]{}
	}
	return nil
}

// NewCandidate builds the row for a parsed record of doc.
func NewCandidate(doc *Document, rec *parser.Record) *Candidate {
	skills := make(datatypes.JSONSlice[string], 0, len(rec.Skills))
	skills = append(skills, rec.Skills...)

	return &Candidate{
		ID:               uuid.New(),
		DocumentID:       doc.ID,
		Name:             rec.Name,
		Email:            rec.Email,
		Skills:           skills,
		Education:        rec.Education,
		Filename:         doc.Filename,
		OriginalFilename: doc.OriginalFilename,
	}
}

func (c Candidate) DisplayName() string {
	if c.Name == nil || *c.Name == "" {
		return UnknownName
	}
	return *c.Name
}

func (c Candidate) DisplayEmail() string {
	if c.Email == nil {
		return "Not Found"
	}
	return *c.Email
}

func (c Candidate) SkillsText() string {
	return strings.Join(c.Skills, ", ")
}
