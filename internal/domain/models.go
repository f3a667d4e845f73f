// Package domain holds the core data types shared across the dashboard:
// ledger transactions, investors, recurring costs, notes and audit entries.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypeIncome     TransactionType = "income"
	TypeExpense    TransactionType = "expense"
	TypeInvestment TransactionType = "investment"
)

// ValidTransactionType reports whether t is one of the three ledger types.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeIncome, TypeExpense, TypeInvestment:
		return true
	}
	return false
}

// Transaction is a single ledger entry. Immutable once inserted,
// except for deletion.
type Transaction struct {
	ID              int64           `json:"id"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Note            string          `json:"note,omitempty"`
	InvestorName    string          `json:"investor_name,omitempty"`
	TransactionDate Date            `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Investor is a named party holding a share of the company.
// Invested is derived from investment transactions on every read,
// never stored.
type Investor struct {
	Name           string          `json:"name"`
	OwnershipPct   decimal.Decimal `json:"ownership_pct"`
	ProfitSharePct decimal.Decimal `json:"profit_share_pct"`
	Invested       decimal.Decimal `json:"invested"`
}

// BillingCycle is the cadence of a recurring cost.
type BillingCycle string

const (
	CycleDaily   BillingCycle = "daily"
	CycleWeekly  BillingCycle = "weekly"
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Days returns the number of days one cycle spans, used to project
// a recurring amount into an equivalent daily rate.
func (c BillingCycle) Days() int {
	switch c {
	case CycleDaily:
		return 1
	case CycleWeekly:
		return 7
	case CycleMonthly:
		return 30
	case CycleYearly:
		return 365
	}
	return 0
}

// RecurringCost is a periodic cost projected into dashboard timeframes.
type RecurringCost struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	BillingCycle BillingCycle    `json:"billing_cycle"`
}

// Note is a shared note/task on the dashboard.
type Note struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	Done      bool       `json:"done"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// AuditEntry records who performed a mutation and what it touched.
type AuditEntry struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	PerformedBy string    `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// User is a dashboard login.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
