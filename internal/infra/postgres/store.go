// Package postgres implements the dashboard's persistence ports over
// Postgres using pgx. All queries are parameterized; a circuit breaker
// guards the pool so a dead database fails fast instead of piling up
// requests.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/infra/resilience"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Store implements the persistence ports over a pgx pool.
type Store struct {
	pool    *pgxpool.Pool
	cb      *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// New connects to the database, retrying with backoff so the service
// survives a slow-starting database, and returns the store.
func New(ctx context.Context, databaseURL string, retryCfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	var pool *pgxpool.Pool
	err = resilience.RetryWithBackoff(ctx, retryCfg, func() error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Store{
		pool:    pool,
		cb:      resilience.NewCircuitBreaker("postgres"),
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks database connectivity, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// execute runs fn inside the circuit breaker and maps breaker and store
// failures to domain errors.
func execute[T any](s *Store, op string, fn func() (T, error)) (T, error) {
	res, err := s.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, &domain.ErrCircuitOpen{Service: "postgres"}
		}
		s.metrics.IncrStoreError(op)
		s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
		return zero, &domain.ErrStore{Op: op, Err: err}
	}
	return res.(T), nil
}

// parseAmount converts a SQL numeric rendered as text into a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
