package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/parser"
	"alfredoptarigan/resume-parser/internal/services"
)

type UploadHandler struct {
	resumeService services.ResumeService
}

func NewUploadHandler(resumeService services.ResumeService) *UploadHandler {
	return &UploadHandler{
		resumeService: resumeService,
	}
}

// HandleUpload handles POST /api/v1/upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	// A missing field reaches the service as nil and is rejected there.
	file, _ := c.FormFile("resume")

	candidate, err := h.resumeService.ProcessUpload(c.UserContext(), file)
	if err != nil {
		return c.Status(uploadErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Resume parsed successfully",
		"document": models.UploadResponse{
			ID:           candidate.ID.String(),
			DocumentID:   candidate.DocumentID.String(),
			Filename:     candidate.Filename,
			OriginalName: candidate.OriginalFilename,
			FileType:     string(parser.DeclaredTypeFromFilename(candidate.OriginalFilename)),
		},
		"candidate": candidate,
	})
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyUpload),
		errors.Is(err, services.ErrUnsupportedFile),
		errors.Is(err, services.ErrFileTooLarge):
		return fiber.StatusBadRequest
	case errors.Is(err, parser.ErrDocumentRead):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
