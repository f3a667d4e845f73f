// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerStore holds the transaction table plus its derived lookups.
type LedgerStore interface {
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	InsertTransaction(ctx context.Context, tx *domain.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error

	ListInvestors(ctx context.Context) ([]domain.Investor, error)
	UpsertInvestor(ctx context.Context, inv *domain.Investor) error
}

// SummaryReader exposes the aggregate queries the summary engine needs.
// All reads; safe for unlimited concurrent invocations.
type SummaryReader interface {
	// TotalsByType sums amounts grouped by transaction type inside the
	// inclusive [from, to] filter. Nil bounds mean unbounded.
	TotalsByType(ctx context.Context, from, to *domain.Date) (map[domain.TransactionType]decimal.Decimal, error)

	// LifetimeInvested sums every investment transaction ever recorded,
	// ignoring any date filter.
	LifetimeInvested(ctx context.Context) (decimal.Decimal, error)

	// InvestorTotals groups lifetime investment transactions by non-empty
	// investor name, descending by invested amount.
	InvestorTotals(ctx context.Context) ([]domain.InvestorTotal, error)

	// DailyTimeline returns one point per distinct transaction date in the
	// filter, ascending. Days without activity are absent.
	DailyTimeline(ctx context.Context, from, to *domain.Date) ([]domain.TimelinePoint, error)
}

// NoteStore holds shared notes/tasks.
type NoteStore interface {
	ListNotes(ctx context.Context) ([]domain.Note, error)
	InsertNote(ctx context.Context, note *domain.Note) error
	ToggleNote(ctx context.Context, id int64) (*domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error
	// DeleteDoneBefore removes done notes whose completion is older than
	// the cutoff. Idempotent; returns the number of rows removed.
	DeleteDoneBefore(ctx context.Context, cutoff domain.Date) (int64, error)
}

// RecurringStore holds recurring costs.
type RecurringStore interface {
	ListRecurringCosts(ctx context.Context) ([]domain.RecurringCost, error)
	InsertRecurringCost(ctx context.Context, rc *domain.RecurringCost) error
	DeleteRecurringCost(ctx context.Context, id int64) error
}

// AuditStore records and lists audit entries.
type AuditStore interface {
	InsertAuditEntry(ctx context.Context, entry *domain.AuditEntry) error
	ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// UserStore looks up dashboard logins.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ChangeCounter is the process-wide change-sequence number. Injectable so
// tests can reset it and a multi-instance deployment can swap in a shared
// implementation without touching call sites.
type ChangeCounter interface {
	Current() int64
	Bump(scope string) int64
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Keys() []string
}
