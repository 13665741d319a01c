package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/handlers"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/repositories"
	"alfredoptarigan/resume-parser/internal/services"
)

func main() {
	var envFiles []string
	pflag.StringSliceVarP(&envFiles, "env-file", "e", nil, "Path to a .env file (repeatable, defaults to .env)")
	pflag.Parse()

	// Load configuration
	cfg := config.Load(envFiles...)
	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.Info().Str("env", cfg.Server.Env).Msg("Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// Initialize repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	docRepo := repositories.NewDocumentRepository(db)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	ctx := context.Background()
	fields, err := services.BuildFieldExtractor(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize field extractor")
	}

	resumeService := services.NewResumeService(
		candidateRepo,
		docRepo,
		storageService,
		services.BuildTextExtractor(cfg),
		fields,
		cfg.Storage.MaxFileSize,
	)
	exportService := services.NewExportService(candidateRepo)
	logger.Info().Msg("Services initialized successfully")

	// Multipart framing needs headroom above the file size limit.
	app := handlers.NewApp(handlers.AppConfig{
		BodyLimit:  int(cfg.Storage.MaxFileSize) + 1<<20,
		AccessLogs: true,
	})
	handlers.RegisterRoutes(app, resumeService, exportService)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("Server forced to shutdown")
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("Server starting")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
