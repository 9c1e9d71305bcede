package server

import (
	"log/slog"
	"net/http"

	"github.com/creditdesk/backend/internal/auth"
	"github.com/creditdesk/backend/internal/config"
	"github.com/creditdesk/backend/internal/http/handlers"
	"github.com/creditdesk/backend/internal/http/middleware"
	"github.com/creditdesk/backend/internal/version"
	"github.com/creditdesk/backend/internal/ws"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Pinger             handlers.Pinger
	CustomerHandler    *handlers.CustomerHandler
	EligibilityHandler *handlers.EligibilityHandler
	LoanHandler        *handlers.LoanHandler
	IngestHandler      *handlers.IngestHandler
	WSHandler          *ws.Handler
	TokenManager       *auth.TokenManager
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	})

	health := handlers.NewHealthHandler(deps.Pinger)
	meta := handlers.NewMetaHandler(cfg.Env, version.Version)

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/v1/meta", meta.GetMeta)

	v1 := r.Group("/v1")
	v1.Use(middleware.RequestBodyLimit(1 << 20))

	if deps.CustomerHandler != nil {
		v1.POST("/register", deps.CustomerHandler.Register)
	}
	if deps.EligibilityHandler != nil {
		v1.POST("/check-eligibility", deps.EligibilityHandler.CheckEligibility)
		v1.POST("/create-loan", deps.EligibilityHandler.CreateLoan)
	}
	if deps.LoanHandler != nil {
		v1.GET("/view-loan/:loanId", deps.LoanHandler.ViewLoan)
		v1.GET("/view-loans/:customerId", deps.LoanHandler.ViewLoansByCustomer)
	}

	if deps.IngestHandler != nil && deps.TokenManager != nil {
		ops := r.Group("/v1/ingest")
		ops.Use(middleware.RequireOpsToken(deps.TokenManager, auth.ScopeIngest))
		ops.POST("/customers", deps.IngestHandler.UploadCustomers)
		ops.POST("/loans", deps.IngestHandler.UploadLoans)
		ops.GET("/jobs/:jobId", deps.IngestHandler.JobStatus)
	}

	if deps.WSHandler != nil {
		r.GET("/v1/ws", deps.WSHandler.HandleWebSocket)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return r
}

// NewWorkerRouter is the worker process's HTTP surface: liveness plus the
// websocket stream for ingest job events. Job progress is published by the
// worker itself, so the stream must be served from this process; the api
// process only streams application decisions.
func NewWorkerRouter(cfg config.Config, logger *slog.Logger, wsHandler *ws.Handler) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "creditdesk-worker",
		})
	})
	r.GET("/v1/ws", wsHandler.HandleWebSocket)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return r
}
