package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pimflow/internal/config"
	"pimflow/internal/handler"
	"pimflow/internal/pipeline"
	"pimflow/internal/pipeline/extract"
	"pimflow/internal/repository/postgres"
	"pimflow/internal/router"
	"pimflow/internal/service"
	s3storage "pimflow/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	batchRepo := postgres.NewBatchRepo(db)
	productRepo := postgres.NewProductRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the parsing pipeline with all registered suppliers
	extractor := extract.NewExtractor(cfg.Extractor.Timeout())
	pipe := pipeline.New(extractor, pipeline.DefaultRegistry())

	// Initialize services
	invoiceSvc := service.NewInvoiceService(pipe, batchRepo, productRepo, s3Client, &cfg.S3)
	batchSvc := service.NewBatchService(batchRepo, productRepo, s3Client, &cfg.S3)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	batchH := handler.NewBatchHandler(batchSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, invoiceH, batchH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background worker for queued batches
	worker := service.NewProcessWorker(batchRepo, invoiceSvc, service.ProcessWorkerConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}
