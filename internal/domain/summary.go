package domain

import "github.com/shopspring/decimal"

// Period is a coarse date-range shorthand used when no explicit
// from/to dates are given.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Days returns how many days back the period reaches from today.
// Zero means no date filter.
func (p Period) Days() int {
	switch p {
	case PeriodDaily:
		return 30
	case PeriodWeekly:
		return 84
	case PeriodMonthly:
		return 365
	case PeriodYearly:
		return 1825
	}
	return 0
}

// NormalizePeriod maps unrecognized values to "all" rather than
// rejecting the request.
func NormalizePeriod(s string) Period {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(s)
	}
	return PeriodAll
}

// InvestorShare is one row of the investor breakdown in a summary.
type InvestorShare struct {
	Name        string          `json:"name"`
	Invested    decimal.Decimal `json:"invested"`
	Share       decimal.Decimal `json:"share"`
	ProfitShare decimal.Decimal `json:"profitShare"`
}

// TimelinePoint is one day of aggregated activity. Days with no
// transactions are absent; zero-padding is the bucketer's job.
type TimelinePoint struct {
	Date       Date            `json:"date"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Investment decimal.Decimal `json:"investment"`
}

// InvestorTotal is a lifetime invested sum per investor name,
// as read from the store.
type InvestorTotal struct {
	Name     string
	Invested decimal.Decimal
}

// FinanceSummary is the computed dashboard view. Constructed fresh on
// every request, never persisted.
type FinanceSummary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	TotalInvestment  decimal.Decimal `json:"totalInvestment"`
	GrossProfit      decimal.Decimal `json:"grossProfit"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	CompanyValuation decimal.Decimal `json:"companyValuation"`
	Investors        []InvestorShare `json:"investors"`
	Timeline         []TimelinePoint `json:"timeline"`
	StartDate        *Date           `json:"startDate,omitempty"`
	EndDate          *Date           `json:"endDate,omitempty"`
}

// OpsStats is a point-in-time snapshot of operational counters for
// the stats endpoint.
type OpsStats struct {
	TotalRequests int64   `json:"total_requests"`
	ErrorRate     float64 `json:"error_rate"`
	StoreErrors   int64   `json:"store_errors"`
	VersionBumps  int64   `json:"version_bumps"`
}
