package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/netigo/netigo-go/internal/config"
	"github.com/netigo/netigo-go/internal/handler"
	"github.com/netigo/netigo-go/internal/infra/cache"
	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/infra/postgres"
	"github.com/netigo/netigo-go/internal/infra/resilience"
	"github.com/netigo/netigo-go/internal/service"
	"github.com/netigo/netigo-go/internal/version"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("presence_ttl", cfg.PresenceTTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
		zap.Duration("note_retention", cfg.NoteRetention),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "netigo-dashboard")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retryCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	store, err := postgres.New(ctx, cfg.DatabaseURL, retryCfg, metrics, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// --- Change counter ---
	counter := version.NewCounter()
	counter.Subscribe(func(e version.DataChanged) {
		metrics.IncrVersionBump(e.Scope)
	})

	// --- Services ---
	auditSvc := service.NewAuditService(store, logger)
	ledgerSvc := service.NewLedgerService(store, auditSvc, counter, logger)
	summarySvc := service.NewSummaryService(store, cfg.MaxConcurrency, metrics, logger)
	notesSvc := service.NewNotesService(store, auditSvc, counter, cfg.NoteRetention, logger)
	recurringSvc := service.NewRecurringService(store, auditSvc, counter, logger)
	authSvc := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	presence := service.NewPresenceTracker(cache.New[struct{}](cfg.PresenceTTL), metrics)

	// --- Background note cleanup sweep ---
	go notesSvc.RunSweeper(ctx, cfg.CleanupInterval)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Ledger:    ledgerSvc,
		Summary:   summarySvc,
		Notes:     notesSvc,
		Recurring: recurringSvc,
		Auth:      authSvc,
		Audit:     auditSvc,
		Presence:  presence,
		Counter:   counter,
		Store:     store,
		Metrics:   metrics,
		Logger:    logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
