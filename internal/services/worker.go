package services

import (
	"context"
	"sync"

	"alfredoptarigan/resume-parser/internal/logger"
)

// ImportResult is the outcome of importing one file.
type ImportResult struct {
	Path        string
	CandidateID string
	Err         error
}

// ImportWorker imports resume files from disk with a fixed number of goroutines.
type ImportWorker interface {
	Start(ctx context.Context)
	Enqueue(path string)
	// Stop closes the queue, waits for queued files to finish and returns every result.
	Stop() []ImportResult
}

type importWorker struct {
	resumeService ResumeService
	jobQueue      chan string
	concurrency   int
	wg            sync.WaitGroup
	mu            sync.Mutex
	results       []ImportResult
	stopOnce      sync.Once
}

func NewImportWorker(resumeService ResumeService, concurrency int) ImportWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &importWorker{
		resumeService: resumeService,
		jobQueue:      make(chan string, 100),
		concurrency:   concurrency,
	}
}

// Start implements ImportWorker.
func (w *importWorker) Start(ctx context.Context) {
	logger.Info().Int("concurrency", w.concurrency).Msg("starting import workers")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Enqueue implements ImportWorker. It blocks while the queue is full.
func (w *importWorker) Enqueue(path string) {
	w.jobQueue <- path
	logger.Debug().Str("path", path).Msg("file enqueued")
}

// Stop implements ImportWorker.
func (w *importWorker) Stop() []ImportResult {
	w.stopOnce.Do(func() {
		close(w.jobQueue)
	})
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ImportResult(nil), w.results...)
}

func (w *importWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for path := range w.jobQueue {
		res := ImportResult{Path: path}

		if err := ctx.Err(); err != nil {
			res.Err = err
		} else if candidate, err := w.resumeService.ImportFile(ctx, path); err != nil {
			res.Err = err
			logger.Warn().Err(err).Int("worker", workerID).Str("path", path).Msg("import failed")
		} else {
			res.CandidateID = candidate.ID.String()
			logger.Info().Int("worker", workerID).Str("path", path).Msg("import completed")
		}

		w.mu.Lock()
		w.results = append(w.results, res)
		w.mu.Unlock()
	}
}
