package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/repositories"
)

const exportSheet = "Candidates"

var exportHeaders = []string{
	"Name",
	"Email",
	"Skills",
	"Education",
	"File",
	"Uploaded At",
}

type ExportService interface {
	// CandidatesXLSX returns a workbook of all candidates, or of the skill
	// search results when query is not blank.
	CandidatesXLSX(query string) ([]byte, error)
}

type exportService struct {
	candidateRepo repositories.CandidateRepository
}

func NewExportService(candidateRepo repositories.CandidateRepository) ExportService {
	return &exportService{candidateRepo: candidateRepo}
}

func (s *exportService) CandidatesXLSX(query string) ([]byte, error) {
	start := time.Now()

	var (
		candidates []models.Candidate
		err        error
	)
	if query == "" {
		candidates, err = s.candidateRepo.FindAll()
	} else {
		candidates, err = s.candidateRepo.SearchBySkill(query)
	}
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}

	for i, c := range candidates {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}

		write(1, c.DisplayName())
		write(2, c.DisplayEmail())
		write(3, c.SkillsText())
		write(4, c.Education)
		write(5, c.OriginalFilename)
		write(6, c.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}

	_ = f.SetColWidth(exportSheet, "A", "B", 28)
	_ = f.SetColWidth(exportSheet, "C", "C", 48)
	_ = f.SetColWidth(exportSheet, "D", "D", 48)
	_ = f.SetColWidth(exportSheet, "E", "F", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info().
		Int("rows", len(candidates)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("candidates exported")

	return buf.Bytes(), nil
}
