package service

import (
	"context"
	"log"
	"sync"
	"time"

	"pimflow/internal/port"
)

// ProcessWorkerConfig holds settings for the background processing worker.
type ProcessWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// ProcessWorker polls for queued invoice batches and dispatches them through
// the parsing pipeline with bounded concurrency.
type ProcessWorker struct {
	batchRepo  port.BatchRepository
	invoiceSvc InvoiceService
	cfg        ProcessWorkerConfig
	wg         sync.WaitGroup
}

// NewProcessWorker creates a new ProcessWorker.
func NewProcessWorker(batchRepo port.BatchRepository, invoiceSvc InvoiceService, cfg ProcessWorkerConfig) *ProcessWorker {
	return &ProcessWorker{
		batchRepo:  batchRepo,
		invoiceSvc: invoiceSvc,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight batches have finished.
func (w *ProcessWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("processWorker: started (poll=%s, concurrency=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("processWorker: shutting down, waiting for in-flight batches...")
			w.wg.Wait()
			log.Printf("processWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			batches, err := w.batchRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("processWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range batches {
				batch := batches[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Fresh context independent of the poll context so
					// in-flight batches complete even during shutdown.
					processCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("processWorker: dispatching batch %s (%s)", batch.ID, batch.OriginalFilename)
					if err := w.invoiceSvc.ProcessBatch(processCtx, &batch); err != nil {
						log.Printf("processWorker: batch %s failed: %v", batch.ID, err)
					}
				}()
			}
		}
	}
}
