package postgres

import (
	"context"
	"time"

	"github.com/netigo/netigo-go/internal/domain"

	"github.com/shopspring/decimal"
)

// dateArgs converts optional date bounds into nullable query parameters.
func dateArgs(from, to *domain.Date) (*time.Time, *time.Time) {
	var f, t *time.Time
	if from != nil {
		f = &from.Time
	}
	if to != nil {
		t = &to.Time
	}
	return f, t
}

// TotalsByType sums amounts grouped by type inside the inclusive filter.
// Types with no rows are simply absent from the map.
func (s *Store) TotalsByType(ctx context.Context, from, to *domain.Date) (map[domain.TransactionType]decimal.Decimal, error) {
	return execute(s, "totals_by_type", func() (map[domain.TransactionType]decimal.Decimal, error) {
		f, t := dateArgs(from, to)
		rows, err := s.pool.Query(ctx, `
			SELECT type, COALESCE(SUM(amount), 0)::text
			FROM transactions
			WHERE ($1::date IS NULL OR transaction_date >= $1)
			  AND ($2::date IS NULL OR transaction_date <= $2)
			GROUP BY type`, f, t)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		totals := make(map[domain.TransactionType]decimal.Decimal)
		for rows.Next() {
			var (
				txType domain.TransactionType
				sum    string
			)
			if err := rows.Scan(&txType, &sum); err != nil {
				return nil, err
			}
			amount, err := parseAmount(sum)
			if err != nil {
				return nil, err
			}
			totals[txType] = amount
		}
		return totals, rows.Err()
	})
}

// LifetimeInvested sums every investment transaction ever recorded. The
// date filter deliberately does not apply: ownership math always uses
// lifetime invested capital.
func (s *Store) LifetimeInvested(ctx context.Context) (decimal.Decimal, error) {
	return execute(s, "lifetime_invested", func() (decimal.Decimal, error) {
		var sum string
		err := s.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0)::text
			FROM transactions
			WHERE type = 'investment'`).Scan(&sum)
		if err != nil {
			return decimal.Zero, err
		}
		return parseAmount(sum)
	})
}

// InvestorTotals groups lifetime investments by non-empty investor name,
// descending by invested amount.
func (s *Store) InvestorTotals(ctx context.Context) ([]domain.InvestorTotal, error) {
	return execute(s, "investor_totals", func() ([]domain.InvestorTotal, error) {
		rows, err := s.pool.Query(ctx, `
			SELECT investor_name, SUM(amount)::text
			FROM transactions
			WHERE type = 'investment'
			  AND investor_name IS NOT NULL
			  AND investor_name <> ''
			GROUP BY investor_name
			ORDER BY SUM(amount) DESC`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		totals := make([]domain.InvestorTotal, 0)
		for rows.Next() {
			var (
				it  domain.InvestorTotal
				sum string
			)
			if err := rows.Scan(&it.Name, &sum); err != nil {
				return nil, err
			}
			if it.Invested, err = parseAmount(sum); err != nil {
				return nil, err
			}
			totals = append(totals, it)
		}
		return totals, rows.Err()
	})
}

// DailyTimeline returns one aggregated point per distinct transaction date
// in the filter, ascending. Days with no activity produce no row; the
// bucketer pads the gaps.
func (s *Store) DailyTimeline(ctx context.Context, from, to *domain.Date) ([]domain.TimelinePoint, error) {
	return execute(s, "daily_timeline", func() ([]domain.TimelinePoint, error) {
		f, t := dateArgs(from, to)
		rows, err := s.pool.Query(ctx, `
			SELECT transaction_date, type, SUM(amount)::text
			FROM transactions
			WHERE ($1::date IS NULL OR transaction_date >= $1)
			  AND ($2::date IS NULL OR transaction_date <= $2)
			GROUP BY transaction_date, type
			ORDER BY transaction_date`, f, t)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		points := make([]domain.TimelinePoint, 0)
		for rows.Next() {
			var (
				day    time.Time
				txType domain.TransactionType
				sum    string
			)
			if err := rows.Scan(&day, &txType, &sum); err != nil {
				return nil, err
			}
			amount, err := parseAmount(sum)
			if err != nil {
				return nil, err
			}

			date := domain.NewDate(day)
			if len(points) == 0 || !points[len(points)-1].Date.Equal(date.Time) {
				points = append(points, domain.TimelinePoint{Date: date})
			}
			p := &points[len(points)-1]
			switch txType {
			case domain.TypeIncome:
				p.Income = p.Income.Add(amount)
			case domain.TypeExpense:
				p.Expense = p.Expense.Add(amount)
			case domain.TypeInvestment:
				p.Investment = p.Investment.Add(amount)
			}
		}
		return points, rows.Err()
	})
}
