package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeSummaryReader serves canned aggregates and records the filter it was
// queried with.
type fakeSummaryReader struct {
	mu       sync.Mutex
	totals   map[domain.TransactionType]decimal.Decimal
	lifetime decimal.Decimal
	byName   []domain.InvestorTotal
	points   []domain.TimelinePoint
	err      error

	totalsFrom, totalsTo *domain.Date
}

func (f *fakeSummaryReader) TotalsByType(ctx context.Context, from, to *domain.Date) (map[domain.TransactionType]decimal.Decimal, error) {
	f.mu.Lock()
	f.totalsFrom, f.totalsTo = from, to
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.totals, nil
}

func (f *fakeSummaryReader) LifetimeInvested(ctx context.Context) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.lifetime, nil
}

func (f *fakeSummaryReader) InvestorTotals(ctx context.Context) ([]domain.InvestorTotal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byName, nil
}

func (f *fakeSummaryReader) DailyTimeline(ctx context.Context, from, to *domain.Date) ([]domain.TimelinePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.points, nil
}

func newSummaryService(reader *fakeSummaryReader) *service.SummaryService {
	return service.NewSummaryService(reader, 4, observability.NewMetrics(), zap.NewNop())
}

func TestGetSummary_Math(t *testing.T) {
	reader := &fakeSummaryReader{
		totals: map[domain.TransactionType]decimal.Decimal{
			domain.TypeIncome:     dec("1000"),
			domain.TypeExpense:    dec("400"),
			domain.TypeInvestment: dec("2000"),
		},
		lifetime: dec("2000"),
		byName: []domain.InvestorTotal{
			{Name: "Bob", Invested: dec("1500")},
			{Name: "Alice", Invested: dec("500")},
		},
	}
	svc := newSummaryService(reader)

	summary, err := svc.GetSummary(context.Background(), domain.PeriodAll, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if !summary.NetProfit.Equal(dec("600")) {
		t.Errorf("netProfit: expected 600, got %s", summary.NetProfit)
	}
	if !summary.GrossProfit.Equal(dec("1000")) {
		t.Errorf("grossProfit: expected 1000, got %s", summary.GrossProfit)
	}
	if !summary.CompanyValuation.Equal(dec("2000")) {
		t.Errorf("companyValuation: expected 2000, got %s", summary.CompanyValuation)
	}

	if len(summary.Investors) != 2 {
		t.Fatalf("expected 2 investors, got %d", len(summary.Investors))
	}
	bob := summary.Investors[0]
	if bob.Name != "Bob" || !bob.Share.Equal(dec("75")) || !bob.ProfitShare.Equal(dec("450")) {
		t.Errorf("unexpected first investor: %+v", bob)
	}
	alice := summary.Investors[1]
	if alice.Name != "Alice" || !alice.Share.Equal(dec("25")) || !alice.ProfitShare.Equal(dec("150")) {
		t.Errorf("unexpected second investor: %+v", alice)
	}
}

func TestGetSummary_ZeroValuation(t *testing.T) {
	reader := &fakeSummaryReader{
		totals:   map[domain.TransactionType]decimal.Decimal{},
		lifetime: decimal.Zero,
		byName:   []domain.InvestorTotal{{Name: "Alice", Invested: decimal.Zero}},
	}
	svc := newSummaryService(reader)

	summary, err := svc.GetSummary(context.Background(), domain.PeriodAll, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if len(summary.Investors) != 1 {
		t.Fatalf("expected 1 investor, got %d", len(summary.Investors))
	}
	inv := summary.Investors[0]
	if !inv.Share.IsZero() || !inv.ProfitShare.IsZero() {
		t.Errorf("zero valuation must yield zero shares, got %+v", inv)
	}
}

func TestGetSummary_StoreFailure(t *testing.T) {
	reader := &fakeSummaryReader{err: errors.New("connection refused")}
	svc := newSummaryService(reader)

	if _, err := svc.GetSummary(context.Background(), domain.PeriodAll, nil, nil); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetSummary_PeriodShorthandFilter(t *testing.T) {
	reader := &fakeSummaryReader{totals: map[domain.TransactionType]decimal.Decimal{}}
	today := date("2024-06-15")
	svc := newSummaryService(reader).WithNow(func() domain.Date { return today })

	summary, err := svc.GetSummary(context.Background(), domain.PeriodDaily, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	// "daily" reaches 30 days back from today.
	wantFrom := today.AddDays(-30)
	if reader.totalsFrom == nil || !reader.totalsFrom.Equal(wantFrom.Time) {
		t.Errorf("expected filter from %s, got %v", wantFrom, reader.totalsFrom)
	}
	if reader.totalsTo != nil {
		t.Errorf("expected open-ended filter, got to=%v", reader.totalsTo)
	}
	if summary.StartDate == nil || !summary.StartDate.Equal(wantFrom.Time) {
		t.Errorf("expected startDate %s, got %v", wantFrom, summary.StartDate)
	}
	if summary.EndDate == nil || !summary.EndDate.Equal(today.Time) {
		t.Errorf("expected endDate %s, got %v", today, summary.EndDate)
	}
}

func TestGetSummary_ExplicitDatesWinOverPeriod(t *testing.T) {
	reader := &fakeSummaryReader{totals: map[domain.TransactionType]decimal.Decimal{}}
	svc := newSummaryService(reader)

	from, to := date("2024-01-01"), date("2024-01-31")
	if _, err := svc.GetSummary(context.Background(), domain.PeriodYearly, &from, &to); err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if reader.totalsFrom == nil || !reader.totalsFrom.Equal(from.Time) {
		t.Errorf("expected filter from %s, got %v", from, reader.totalsFrom)
	}
	if reader.totalsTo == nil || !reader.totalsTo.Equal(to.Time) {
		t.Errorf("expected filter to %s, got %v", to, reader.totalsTo)
	}
}

func TestGetSummary_AllUsesEarliestTimelineDate(t *testing.T) {
	reader := &fakeSummaryReader{
		totals: map[domain.TransactionType]decimal.Decimal{},
		points: []domain.TimelinePoint{
			{Date: date("2023-03-01"), Income: dec("10")},
			{Date: date("2023-01-15"), Income: dec("5")},
		},
	}
	svc := newSummaryService(reader)

	summary, err := svc.GetSummary(context.Background(), domain.PeriodAll, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if reader.totalsFrom != nil || reader.totalsTo != nil {
		t.Errorf("expected unfiltered query for \"all\", got from=%v to=%v", reader.totalsFrom, reader.totalsTo)
	}
	if summary.StartDate == nil || summary.StartDate.String() != "2023-01-15" {
		t.Errorf("expected startDate 2023-01-15, got %v", summary.StartDate)
	}
}

func TestGetBucketedTimeline_MonthlyClipped(t *testing.T) {
	reader := &fakeSummaryReader{
		points: []domain.TimelinePoint{
			{Date: date("2024-01-20"), Income: dec("100")},
			{Date: date("2024-03-05"), Expense: dec("40")},
		},
	}
	svc := newSummaryService(reader)

	from, to := date("2024-01-15"), date("2024-03-10")
	buckets, err := svc.GetBucketedTimeline(context.Background(), domain.PeriodAll, "monthly", &from, &to)
	if err != nil {
		t.Fatalf("GetBucketedTimeline: %v", err)
	}

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "Jan 15 – Feb 14" {
		t.Errorf("unexpected first label %q", buckets[0].Label)
	}
	if buckets[1].Label != "Feb 15 – Mar 10" {
		t.Errorf("unexpected last label %q", buckets[1].Label)
	}
	if !buckets[0].Income.Equal(dec("100")) {
		t.Errorf("expected first bucket income 100, got %s", buckets[0].Income)
	}
	if !buckets[1].Expense.Equal(dec("40")) {
		t.Errorf("expected second bucket expense 40, got %s", buckets[1].Expense)
	}
}

func TestGetBucketedTimeline_GranularityFallsBackToPeriod(t *testing.T) {
	reader := &fakeSummaryReader{
		points: []domain.TimelinePoint{{Date: date("2024-06-10"), Income: dec("1")}},
	}
	today := date("2024-06-15")
	svc := newSummaryService(reader).WithNow(func() domain.Date { return today })

	buckets, err := svc.GetBucketedTimeline(context.Background(), domain.PeriodDaily, "", nil, nil)
	if err != nil {
		t.Fatalf("GetBucketedTimeline: %v", err)
	}

	// "daily" period spans 30 days back, one bucket per day.
	if len(buckets) != 31 {
		t.Fatalf("expected 31 daily buckets, got %d", len(buckets))
	}
}

func TestGetBucketedTimeline_EmptyStore(t *testing.T) {
	reader := &fakeSummaryReader{}
	svc := newSummaryService(reader)

	buckets, err := svc.GetBucketedTimeline(context.Background(), domain.PeriodAll, "monthly", nil, nil)
	if err != nil {
		t.Fatalf("GetBucketedTimeline: %v", err)
	}
	if len(buckets) != 0 {
		t.Errorf("expected no buckets, got %d", len(buckets))
	}
}
