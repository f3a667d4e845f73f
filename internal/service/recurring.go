package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/port"
	"github.com/netigo/netigo-go/internal/version"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var recurringTracer = otel.Tracer("service/recurring")

// timeframeDays maps a requested timeframe to its day count for
// projecting recurring costs.
var timeframeDays = map[domain.Period]int{
	domain.PeriodDaily:   1,
	domain.PeriodWeekly:  7,
	domain.PeriodMonthly: 30,
	domain.PeriodYearly:  365,
}

// RecurringService owns recurring costs and their projection into
// dashboard timeframes.
type RecurringService struct {
	store   port.RecurringStore
	audit   *AuditService
	counter port.ChangeCounter
	logger  *zap.Logger
}

// NewRecurringService creates a new recurring-cost service.
func NewRecurringService(store port.RecurringStore, audit *AuditService, counter port.ChangeCounter, logger *zap.Logger) *RecurringService {
	return &RecurringService{store: store, audit: audit, counter: counter, logger: logger}
}

// List returns all recurring costs.
func (s *RecurringService) List(ctx context.Context) ([]domain.RecurringCost, error) {
	ctx, span := recurringTracer.Start(ctx, "RecurringService.List")
	defer span.End()

	return s.store.ListRecurringCosts(ctx)
}

// Add validates and inserts a recurring cost.
func (s *RecurringService) Add(ctx context.Context, rc *domain.RecurringCost, performedBy string) (*domain.RecurringCost, error) {
	ctx, span := recurringTracer.Start(ctx, "RecurringService.Add")
	defer span.End()

	if strings.TrimSpace(rc.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if rc.Amount.IsNegative() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must not be negative"}
	}
	if rc.BillingCycle.Days() == 0 {
		return nil, &domain.ErrValidation{Field: "billing_cycle", Message: "must be daily, weekly, monthly or yearly"}
	}

	if err := s.store.InsertRecurringCost(ctx, rc); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "add_recurring_cost",
		fmt.Sprintf("%s %s/%s", rc.Name, rc.Amount, rc.BillingCycle), performedBy)
	s.counter.Bump(version.ScopeRecurring)
	return rc, nil
}

// Delete removes a recurring cost by id.
func (s *RecurringService) Delete(ctx context.Context, id int64, performedBy string) error {
	ctx, span := recurringTracer.Start(ctx, "RecurringService.Delete")
	defer span.End()

	if err := s.store.DeleteRecurringCost(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, "delete_recurring_cost", fmt.Sprintf("recurring cost %d", id), performedBy)
	s.counter.Bump(version.ScopeRecurring)
	return nil
}

// ProjectedTotal converts every recurring cost to an equivalent daily rate
// and re-scales the sum into the requested timeframe. Unrecognized
// timeframes project one month.
func (s *RecurringService) ProjectedTotal(ctx context.Context, timeframe domain.Period) (decimal.Decimal, error) {
	ctx, span := recurringTracer.Start(ctx, "RecurringService.ProjectedTotal")
	defer span.End()

	costs, err := s.store.ListRecurringCosts(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	days, ok := timeframeDays[timeframe]
	if !ok {
		days = timeframeDays[domain.PeriodMonthly]
	}

	dailyRate := decimal.Zero
	for _, rc := range costs {
		dailyRate = dailyRate.Add(rc.Amount.Div(decimal.NewFromInt(int64(rc.BillingCycle.Days()))))
	}

	s.logger.Debug("recurring projection",
		zap.String("timeframe", string(timeframe)),
		zap.Int("costs", len(costs)),
	)
	return dailyRate.Mul(decimal.NewFromInt(int64(days))).Round(2), nil
}
