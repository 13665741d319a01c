package main

import (
	"context"
	iofs "io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/parser"
	"alfredoptarigan/resume-parser/internal/repositories"
	"alfredoptarigan/resume-parser/internal/services"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		dir         string
		concurrency int
		envFiles    []string
	)
	fs := pflag.NewFlagSet("import_resumes", pflag.ContinueOnError)
	fs.StringVarP(&dir, "dir", "d", "./resumes", "Directory to import PDF and DOCX resumes from")
	fs.IntVarP(&concurrency, "concurrency", "n", 2, "Number of files processed at once")
	fs.StringSliceVarP(&envFiles, "env-file", "e", nil, "Path to a .env file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load(envFiles...)
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.Info().Str("dir", dir).Msg("Starting resume import")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize database")
		return 1
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Error().Err(err).Msg("Failed to create upload directory")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fields, err := services.BuildFieldExtractor(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize field extractor")
		return 1
	}

	resumeService := services.NewResumeService(
		repositories.NewCandidateRepository(db),
		repositories.NewDocumentRepository(db),
		storageService,
		services.BuildTextExtractor(cfg),
		fields,
		cfg.Storage.MaxFileSize,
	)

	worker := services.NewImportWorker(resumeService, concurrency)
	worker.Start(ctx)

	walkErr := filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !parser.DeclaredTypeFromFilename(path).Supported() {
			logger.Debug().Str("path", path).Msg("Skipping unsupported file")
			return nil
		}
		worker.Enqueue(path)
		return ctx.Err()
	})

	results := worker.Stop()

	successCount, failCount := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failCount++
			logger.Error().Err(res.Err).Str("path", res.Path).Msg("Import failed")
			continue
		}
		successCount++
	}

	logger.Info().
		Int("imported", successCount).
		Int("failed", failCount).
		Msg("Import completed")

	if walkErr != nil {
		logger.Error().Err(walkErr).Msg("Directory walk stopped early")
	}
	if walkErr != nil || failCount > 0 {
		return 1
	}
	return 0
}
