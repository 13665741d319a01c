package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentStatus string

const (
	StatusUploaded DocumentStatus = "uploaded"
	StatusParsed   DocumentStatus = "parsed"
	StatusFailed   DocumentStatus = "failed"
)

// Document records one uploaded file, including uploads that could not be read.
type Document struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename         string         `gorm:"type:text" json:"filename"`
	OriginalFilename string         `gorm:"type:text" json:"original_filename"`
	FileType         string         `gorm:"type:text" json:"file_type"`
	FilePath         string         `gorm:"type:text" json:"file_path"`
	Status           DocumentStatus `gorm:"type:text;not null;default:'uploaded'" json:"status"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message,omitempty"`
	CandidateID      *uuid.UUID     `gorm:"type:uuid" json:"candidate_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
