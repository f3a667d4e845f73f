package service

import (
	"context"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var auditTracer = otel.Tracer("service/audit")

const defaultAuditLimit = 50

// AuditService records who did what. Recording is best effort: a failed
// audit write is logged but never fails the mutation it describes.
type AuditService struct {
	store  port.AuditStore
	logger *zap.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(store port.AuditStore, logger *zap.Logger) *AuditService {
	return &AuditService{store: store, logger: logger}
}

// Record writes one audit entry.
func (s *AuditService) Record(ctx context.Context, action, details, performedBy string) {
	entry := &domain.AuditEntry{
		Action:      action,
		Details:     details,
		PerformedBy: performedBy,
	}
	if err := s.store.InsertAuditEntry(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("action", action),
			zap.String("performed_by", performedBy),
			zap.Error(err),
		)
	}
}

// List returns the most recent audit entries, newest first.
func (s *AuditService) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	ctx, span := auditTracer.Start(ctx, "AuditService.List")
	defer span.End()

	if limit <= 0 || limit > 500 {
		limit = defaultAuditLimit
	}
	return s.store.ListAuditEntries(ctx, limit)
}
