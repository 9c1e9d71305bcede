package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creditdesk/backend/internal/config"
	"github.com/creditdesk/backend/internal/db"
	creditscoredomain "github.com/creditdesk/backend/internal/domain/creditscore"
	"github.com/creditdesk/backend/internal/ingest"
	"github.com/creditdesk/backend/internal/jobs"
	"github.com/creditdesk/backend/internal/observability"
	postgresrepo "github.com/creditdesk/backend/internal/repository/postgres"
	"github.com/creditdesk/backend/internal/server"
	"github.com/creditdesk/backend/internal/ws"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env, "worker")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect postgres", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	customerRepo := postgresrepo.NewCustomerRepository(pool)
	loanRepo := postgresrepo.NewLoanRepository(pool)
	scoreRepo := postgresrepo.NewCreditScoreRepository(pool)
	jobRepo := postgresrepo.NewIngestJobRepository(pool)

	// job events are published here, so the subscriber endpoint must be
	// served from this process as well
	hub := ws.NewHub()
	notifier := ws.NewNotifier(hub)
	ingestService := ingest.NewService(customerRepo, loanRepo, jobRepo, notifier, cfg.IngestDir)
	worker := jobs.NewWorker(jobRepo, ingestService, notifier)
	refresher := creditscoredomain.NewRefresher(customerRepo, loanRepo, scoreRepo, logger)

	httpServer := &http.Server{
		Addr:              cfg.WorkerAddr(),
		Handler:           server.NewWorkerRouter(cfg, logger, ws.NewHandler(hub)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker ws server starting", "addr", cfg.WorkerAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker ws server failed", "err", err)
			os.Exit(1)
		}
	}()

	pollTicker := time.NewTicker(cfg.WorkerPollInterval)
	defer pollTicker.Stop()
	refreshTicker := time.NewTicker(cfg.ScoreRefreshInterval)
	defer refreshTicker.Stop()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started",
		"poll_interval", cfg.WorkerPollInterval.String(),
		"batch_size", cfg.WorkerBatchSize,
		"score_refresh_interval", cfg.ScoreRefreshInterval.String(),
	)
	for {
		select {
		case <-sigCtx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = httpServer.Shutdown(shutdownCtx)
			shutdownCancel()
			logger.Info("worker stopped")
			return
		case <-pollTicker.C:
			runCtx, runCancel := context.WithTimeout(context.Background(), 5*time.Minute)
			err := worker.RunOnce(runCtx, cfg.WorkerBatchSize)
			runCancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker run failed", "err", err)
			}
		case <-refreshTicker.C:
			runCtx, runCancel := context.WithTimeout(context.Background(), 10*time.Minute)
			updated, err := refresher.RefreshAll(runCtx)
			runCancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("score refresh failed", "err", err)
				continue
			}
			logger.Info("score refresh completed", "customers_updated", updated)
		}
	}
}
