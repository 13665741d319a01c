package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-parser/internal/services"
)

type AppConfig struct {
	BodyLimit  int
	AccessLogs bool
}

// NewApp creates the Fiber app with the embedded views and shared middleware.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Resume Parser",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: customErrorHandler,
		Views:        NewViewEngine(),
	})

	app.Use(recover.New())
	if cfg.AccessLogs {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	return app
}

// RegisterRoutes mounts the browser routes and the JSON API.
func RegisterRoutes(app *fiber.App, resumeService services.ResumeService, exportService services.ExportService) {
	web := NewWebHandler(resumeService)
	uploadHandler := NewUploadHandler(resumeService)
	candidateHandler := NewCandidateHandler(resumeService, exportService)

	app.Get("/", web.HandleIndex)
	app.Post("/upload", web.HandleUpload)
	app.Get("/search", web.HandleSearch)
	app.Get("/delete/:id", web.HandleDelete)
	app.Post("/clear_all", web.HandleClearAll)

	api := app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Get("/candidates", candidateHandler.HandleList)
	api.Delete("/candidates", candidateHandler.HandleDeleteAll)
	api.Get("/candidates/export.xlsx", candidateHandler.HandleExport)
	api.Get("/candidates/:id", candidateHandler.HandleGet)
	api.Delete("/candidates/:id", candidateHandler.HandleDelete)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
