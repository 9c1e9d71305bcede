package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creditdesk/backend/internal/auth"
	"github.com/creditdesk/backend/internal/config"
	"github.com/creditdesk/backend/internal/db"
	applicationdomain "github.com/creditdesk/backend/internal/domain/application"
	customerdomain "github.com/creditdesk/backend/internal/domain/customer"
	loandomain "github.com/creditdesk/backend/internal/domain/loan"
	"github.com/creditdesk/backend/internal/http/handlers"
	"github.com/creditdesk/backend/internal/ingest"
	"github.com/creditdesk/backend/internal/observability"
	postgresrepo "github.com/creditdesk/backend/internal/repository/postgres"
	"github.com/creditdesk/backend/internal/server"
	"github.com/creditdesk/backend/internal/ws"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env, "api")

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
	appRepo := postgresrepo.NewApplicationRepository(pool)
	jobRepo := postgresrepo.NewIngestJobRepository(pool)

	hub := ws.NewHub()
	notifier := ws.NewNotifier(hub)

	customerService := customerdomain.NewService(customerRepo)
	applicationService := applicationdomain.NewService(customerRepo, loanRepo, scoreRepo, appRepo, notifier)
	loanService := loandomain.NewService(loanRepo, customerRepo, appRepo)
	ingestService := ingest.NewService(customerRepo, loanRepo, jobRepo, notifier, cfg.IngestDir)

	tokenManager := auth.NewTokenManager(cfg.OpsTokenIssuer, cfg.OpsTokenAudience, cfg.OpsTokenSigningKey)

	r := server.NewRouter(cfg, logger, server.Dependencies{
		Pinger:             pool,
		CustomerHandler:    handlers.NewCustomerHandler(customerService),
		EligibilityHandler: handlers.NewEligibilityHandler(applicationService),
		LoanHandler:        handlers.NewLoanHandler(loanService),
		IngestHandler:      handlers.NewIngestHandler(ingestService, cfg.IngestMaxFileBytes),
		WSHandler:          ws.NewHandler(hub),
		TokenManager:       tokenManager,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api server starting", "addr", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("api server stopped")
}
