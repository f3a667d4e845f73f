// Package service provides the business logic layer (use cases).
// SummaryService is the aggregation engine behind the dashboard: totals by
// type, investor ownership/profit attribution and the daily timeline.
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/infra/resilience"
	"github.com/netigo/netigo-go/internal/port"
	"github.com/netigo/netigo-go/internal/timeline"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var summaryTracer = otel.Tracer("service/summary")

var oneHundred = decimal.NewFromInt(100)

// SummaryService computes FinanceSummary views. Reads only; safe for
// concurrent use. A bulkhead bounds how many aggregations run at once.
type SummaryService struct {
	store    port.SummaryReader
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger

	// now is injectable for tests; defaults to domain.Today.
	now func() domain.Date
}

// NewSummaryService creates a new summary service.
func NewSummaryService(store port.SummaryReader, maxConcurrency int, metrics *observability.Metrics, logger *zap.Logger) *SummaryService {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &SummaryService{
		store:    store,
		bulkhead: resilience.NewBulkhead(maxConcurrency),
		metrics:  metrics,
		logger:   logger,
		now:      domain.Today,
	}
}

// WithNow overrides the clock. For tests.
func (s *SummaryService) WithNow(now func() domain.Date) *SummaryService {
	s.now = now
	return s
}

// dateRange is the resolved filter plus the bounds echoed to the client.
type dateRange struct {
	filterFrom *domain.Date
	filterTo   *domain.Date
	startDate  *domain.Date // nil means "earliest timeline date"
	endDate    *domain.Date
}

// resolveRange applies the filter priority order: explicit dates win over
// the period shorthand; an unrecognized period behaves like "all".
func (s *SummaryService) resolveRange(period domain.Period, from, to *domain.Date) dateRange {
	today := s.now()

	switch {
	case from != nil && to != nil:
		return dateRange{filterFrom: from, filterTo: to, startDate: from, endDate: to}
	case from != nil:
		return dateRange{filterFrom: from, startDate: from, endDate: &today}
	case to != nil:
		return dateRange{filterTo: to, endDate: to}
	}

	if days := period.Days(); days > 0 {
		start := today.AddDays(-days)
		return dateRange{filterFrom: &start, startDate: &start, endDate: &today}
	}

	// "all": no filter; startDate comes from the earliest timeline entry.
	return dateRange{endDate: &today}
}

// GetSummary produces a FinanceSummary for the given period/date filter.
// The date filter governs income, expense and the timeline, but never the
// company valuation: ownership math always uses lifetime invested capital.
// Any store failure makes the whole call fail; no partial summaries.
func (s *SummaryService) GetSummary(ctx context.Context, period domain.Period, from, to *domain.Date) (*domain.FinanceSummary, error) {
	ctx, span := summaryTracer.Start(ctx, "SummaryService.GetSummary")
	defer span.End()
	span.SetAttributes(attribute.String("summary.period", string(period)))

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	rng := s.resolveRange(period, from, to)

	var (
		totals         map[domain.TransactionType]decimal.Decimal
		valuation      decimal.Decimal
		investorTotals []domain.InvestorTotal
		points         []domain.TimelinePoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.store.TotalsByType(gctx, rng.filterFrom, rng.filterTo)
		return err
	})
	g.Go(func() (err error) {
		valuation, err = s.store.LifetimeInvested(gctx)
		return err
	})
	g.Go(func() (err error) {
		investorTotals, err = s.store.InvestorTotals(gctx)
		return err
	})
	g.Go(func() (err error) {
		points, err = s.store.DailyTimeline(gctx, rng.filterFrom, rng.filterTo)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("summary aggregation failed",
			zap.String("period", string(period)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	totalIncome := totals[domain.TypeIncome]
	totalExpense := totals[domain.TypeExpense]
	totalInvestment := totals[domain.TypeInvestment]
	netProfit := totalIncome.Sub(totalExpense)

	summary := &domain.FinanceSummary{
		TotalIncome:      totalIncome,
		TotalExpense:     totalExpense,
		TotalInvestment:  totalInvestment,
		GrossProfit:      totalIncome,
		NetProfit:        netProfit,
		CompanyValuation: valuation,
		Investors:        investorShares(investorTotals, valuation, netProfit),
		Timeline:         points,
		StartDate:        rng.startDate,
		EndDate:          rng.endDate,
	}

	if summary.StartDate == nil && len(points) > 0 {
		earliest := points[0].Date
		for _, p := range points[1:] {
			if p.Date.Before(earliest.Time) {
				earliest = p.Date
			}
		}
		summary.StartDate = &earliest
	}

	return summary, nil
}

// investorShares computes ownership and profit attribution per investor.
// Shares are percentages of lifetime valuation, profit shares are absolute
// amounts, both rounded to 2 decimal places. A zero valuation yields zero
// shares, never a division error.
func investorShares(totals []domain.InvestorTotal, valuation, netProfit decimal.Decimal) []domain.InvestorShare {
	shares := make([]domain.InvestorShare, 0, len(totals))
	for _, it := range totals {
		share := decimal.Zero
		profitShare := decimal.Zero
		if valuation.IsPositive() {
			fraction := it.Invested.Div(valuation)
			share = fraction.Mul(oneHundred).Round(2)
			profitShare = fraction.Mul(netProfit).Round(2)
		}
		shares = append(shares, domain.InvestorShare{
			Name:        it.Name,
			Invested:    it.Invested,
			Share:       share,
			ProfitShare: profitShare,
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Invested.GreaterThan(shares[j].Invested)
	})
	return shares
}

// GetBucketedTimeline fetches the daily timeline for the filter and
// re-groups it into chart buckets at the requested granularity.
func (s *SummaryService) GetBucketedTimeline(ctx context.Context, period domain.Period, granularity string, from, to *domain.Date) ([]timeline.Bucket, error) {
	ctx, span := summaryTracer.Start(ctx, "SummaryService.GetBucketedTimeline")
	defer span.End()

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	rng := s.resolveRange(period, from, to)

	points, err := s.store.DailyTimeline(ctx, rng.filterFrom, rng.filterTo)
	if err != nil {
		s.logger.Error("timeline fetch failed", zap.Error(err))
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	start := rng.startDate
	if start == nil {
		if len(points) == 0 {
			return []timeline.Bucket{}, nil
		}
		earliest := points[0].Date
		for _, p := range points[1:] {
			if p.Date.Before(earliest.Time) {
				earliest = p.Date
			}
		}
		start = &earliest
	}
	end := rng.endDate
	if end == nil {
		today := s.now()
		end = &today
	}

	g := timeline.NormalizeGranularity(granularity)
	if granularity == "" {
		g = timeline.NormalizeGranularity(string(period))
	}
	return timeline.Build(points, *start, *end, g), nil
}
