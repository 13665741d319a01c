package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/parser"
	"alfredoptarigan/resume-parser/internal/repositories"
	"alfredoptarigan/resume-parser/internal/services"
)

const (
	pageLayout = "layouts/main"
	pageTitle  = "Resume Parser"
)

// WebHandler serves the browser form.
type WebHandler struct {
	resumeService services.ResumeService
}

func NewWebHandler(resumeService services.ResumeService) *WebHandler {
	return &WebHandler{resumeService: resumeService}
}

// HandleIndex handles GET /
func (h *WebHandler) HandleIndex(c *fiber.Ctx) error {
	candidates, err := h.resumeService.ListCandidates()
	if err != nil {
		return err
	}

	return c.Render("index", fiber.Map{
		"Title":      pageTitle,
		"Candidates": candidates,
		"Error":      c.Query("error"),
	}, pageLayout)
}

// HandleUpload handles POST /upload
func (h *WebHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Redirect("/")
	}

	if _, err := h.resumeService.ProcessUpload(c.UserContext(), file); err != nil {
		logger.Warn().Err(err).Str("file", file.Filename).Msg("web upload failed")
		return c.Redirect("/?error=" + url.QueryEscape(uploadErrorMessage(err)))
	}

	return c.Redirect("/")
}

// HandleSearch handles GET /search?q=
func (h *WebHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")

	results, err := h.resumeService.SearchCandidates(query)
	if err != nil {
		return err
	}

	return c.Render("results", fiber.Map{
		"Title":   pageTitle,
		"Query":   query,
		"Results": results,
	}, pageLayout)
}

// HandleDelete handles GET /delete/:id
func (h *WebHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Redirect("/")
	}

	if err := h.resumeService.DeleteCandidate(id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	return c.Redirect("/")
}

// HandleClearAll handles POST /clear_all
func (h *WebHandler) HandleClearAll(c *fiber.Ctx) error {
	if _, err := h.resumeService.ClearAll(); err != nil {
		return err
	}

	return c.Redirect("/")
}

// uploadErrorMessage turns an upload failure into text for the form page.
func uploadErrorMessage(err error) string {
	filename := "the file"
	var uploadErr *services.UploadError
	if errors.As(err, &uploadErr) && uploadErr.Filename != "" {
		filename = uploadErr.Filename
	}

	switch {
	case errors.Is(err, parser.ErrDocumentRead):
		return fmt.Sprintf("Could not read %s. The document may be damaged or not a real PDF/DOCX.", filename)
	case errors.Is(err, services.ErrUnsupportedFile):
		return fmt.Sprintf("%s is not supported. Upload a PDF or DOCX resume.", filename)
	case errors.Is(err, services.ErrFileTooLarge):
		return fmt.Sprintf("%s is too large.", filename)
	case errors.Is(err, services.ErrEmptyUpload):
		return "Choose a resume to upload."
	default:
		return "Failed to process the resume. Please try again."
	}
}
