package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/repositories"
	"alfredoptarigan/resume-parser/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CandidateHandler struct {
	resumeService services.ResumeService
	exportService services.ExportService
}

func NewCandidateHandler(resumeService services.ResumeService, exportService services.ExportService) *CandidateHandler {
	return &CandidateHandler{
		resumeService: resumeService,
		exportService: exportService,
	}
}

// HandleList handles GET /candidates. With a q parameter it searches skills.
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	var (
		candidates []models.Candidate
		err        error
	)

	query := c.Query("q")
	if c.Context().QueryArgs().Has("q") {
		candidates, err = h.resumeService.SearchCandidates(query)
	} else {
		candidates, err = h.resumeService.ListCandidates()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load candidates",
		})
	}

	if candidates == nil {
		candidates = []models.Candidate{}
	}

	return c.JSON(models.CandidateListResponse{
		Query:      query,
		Count:      len(candidates),
		Candidates: candidates,
	})
}

// HandleGet handles GET /candidates/:id
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	candidate, err := h.resumeService.GetCandidate(id)
	if err != nil {
		return candidateLookupError(c, err)
	}

	return c.JSON(candidate)
}

// HandleDelete handles DELETE /candidates/:id
func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	if err := h.resumeService.DeleteCandidate(id); err != nil {
		return candidateLookupError(c, err)
	}

	return c.JSON(models.DeleteResponse{Deleted: 1})
}

// HandleDeleteAll handles DELETE /candidates
func (h *CandidateHandler) HandleDeleteAll(c *fiber.Ctx) error {
	n, err := h.resumeService.ClearAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete candidates",
		})
	}

	return c.JSON(models.DeleteResponse{Deleted: n})
}

// HandleExport handles GET /candidates/export.xlsx
func (h *CandidateHandler) HandleExport(c *fiber.Ctx) error {
	data, err := h.exportService.CandidatesXLSX(c.Query("q"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export candidates",
		})
	}

	c.Attachment("candidates.xlsx")
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(data)
}

func candidateLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
