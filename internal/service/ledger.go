package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/port"
	"github.com/netigo/netigo-go/internal/version"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ledgerTracer = otel.Tracer("service/ledger")

// LedgerService owns transactions, categories and investors. Every
// successful mutation records an audit entry and bumps the change counter
// exactly once.
type LedgerService struct {
	store   port.LedgerStore
	audit   *AuditService
	counter port.ChangeCounter
	logger  *zap.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store port.LedgerStore, audit *AuditService, counter port.ChangeCounter, logger *zap.Logger) *LedgerService {
	return &LedgerService{store: store, audit: audit, counter: counter, logger: logger}
}

// ListTransactions returns all transactions, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListTransactions")
	defer span.End()

	return s.store.ListTransactions(ctx)
}

// AddTransaction validates and inserts a ledger entry.
func (s *LedgerService) AddTransaction(ctx context.Context, tx *domain.Transaction, performedBy string) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.AddTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.type", string(tx.Type)))

	if !domain.ValidTransactionType(tx.Type) {
		return nil, &domain.ErrValidation{Field: "type", Message: "must be income, expense or investment"}
	}
	if strings.TrimSpace(tx.Category) == "" {
		return nil, &domain.ErrValidation{Field: "category", Message: "required"}
	}
	if tx.Amount.IsNegative() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must not be negative"}
	}
	// investor_name is only meaningful on investments
	if tx.Type != domain.TypeInvestment {
		tx.InvestorName = ""
	}
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = domain.Today()
	}

	if err := s.store.InsertTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "add_transaction",
		fmt.Sprintf("%s %s in %s", tx.Type, tx.Amount, tx.Category), performedBy)
	s.counter.Bump(version.ScopeTransactions)

	s.logger.Info("transaction added",
		zap.Int64("id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.String("category", tx.Category),
	)
	return tx, nil
}

// DeleteTransaction removes a ledger entry by id.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64, performedBy string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.DeleteTransaction")
	defer span.End()

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, "delete_transaction", fmt.Sprintf("transaction %d", id), performedBy)
	s.counter.Bump(version.ScopeTransactions)
	return nil
}

// ListCategories returns all category names.
func (s *LedgerService) ListCategories(ctx context.Context) ([]string, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListCategories")
	defer span.End()

	return s.store.ListCategories(ctx)
}

// AddCategory inserts a category name.
func (s *LedgerService) AddCategory(ctx context.Context, name, performedBy string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.AddCategory")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}

	if err := s.store.AddCategory(ctx, name); err != nil {
		return err
	}

	s.audit.Record(ctx, "add_category", name, performedBy)
	s.counter.Bump(version.ScopeCategories)
	return nil
}

// ListInvestors returns all investors with their derived invested totals.
func (s *LedgerService) ListInvestors(ctx context.Context) ([]domain.Investor, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListInvestors")
	defer span.End()

	return s.store.ListInvestors(ctx)
}

// UpsertInvestor creates or updates an investor's percentages. The store
// uses a conflict clause rather than check-then-act, so concurrent upserts
// are safe.
func (s *LedgerService) UpsertInvestor(ctx context.Context, inv *domain.Investor, performedBy string) error {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpsertInvestor")
	defer span.End()

	if strings.TrimSpace(inv.Name) == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}

	if err := s.store.UpsertInvestor(ctx, inv); err != nil {
		return err
	}

	s.audit.Record(ctx, "upsert_investor", inv.Name, performedBy)
	s.counter.Bump(version.ScopeInvestors)
	return nil
}
