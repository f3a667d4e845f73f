package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/netigo/netigo-go/internal/domain"
)

// ListTransactions returns all transactions, newest first.
func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return execute(s, "list_transactions", func() ([]domain.Transaction, error) {
		rows, err := s.pool.Query(ctx, `
			SELECT id, type, category, amount::text, COALESCE(note, ''),
			       COALESCE(investor_name, ''), transaction_date, created_at
			FROM transactions
			ORDER BY created_at DESC`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		txs := make([]domain.Transaction, 0)
		for rows.Next() {
			var (
				tx      domain.Transaction
				amount  string
				txDate  time.Time
				created time.Time
			)
			if err := rows.Scan(&tx.ID, &tx.Type, &tx.Category, &amount, &tx.Note, &tx.InvestorName, &txDate, &created); err != nil {
				return nil, err
			}
			if tx.Amount, err = parseAmount(amount); err != nil {
				return nil, err
			}
			tx.TransactionDate = domain.NewDate(txDate)
			tx.CreatedAt = created
			txs = append(txs, tx)
		}
		return txs, rows.Err()
	})
}

// InsertTransaction inserts a transaction and fills in its id and
// created_at.
func (s *Store) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	_, err := execute(s, "insert_transaction", func() (struct{}, error) {
		var investor *string
		if tx.InvestorName != "" {
			investor = &tx.InvestorName
		}
		var note *string
		if tx.Note != "" {
			note = &tx.Note
		}
		err := s.pool.QueryRow(ctx, `
			INSERT INTO transactions (type, category, amount, note, investor_name, transaction_date)
			VALUES ($1, $2, $3::numeric, $4, $5, $6)
			RETURNING id, created_at`,
			tx.Type, tx.Category, tx.Amount.StringFixed(2), note, investor, tx.TransactionDate.Time,
		).Scan(&tx.ID, &tx.CreatedAt)
		return struct{}{}, err
	})
	return err
}

// DeleteTransaction removes a transaction by id.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	affected, err := execute(s, "delete_transaction", func() (int64, error) {
		tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: fmt.Sprint(id)}
	}
	return nil
}

// ListCategories returns all category names, sorted.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	return execute(s, "list_categories", func() ([]string, error) {
		rows, err := s.pool.Query(ctx, `SELECT name FROM categories ORDER BY name`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		names := make([]string, 0)
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		return names, rows.Err()
	})
}

// AddCategory inserts a category name; inserting an existing name is a
// no-op rather than an error.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	_, err := execute(s, "add_category", func() (struct{}, error) {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		return struct{}{}, err
	})
	return err
}

// ListInvestors returns all investors with their derived invested totals.
// Invested is recomputed from the transaction set on every call.
func (s *Store) ListInvestors(ctx context.Context) ([]domain.Investor, error) {
	return execute(s, "list_investors", func() ([]domain.Investor, error) {
		rows, err := s.pool.Query(ctx, `
			SELECT i.name, i.ownership_pct::text, i.profit_share_pct::text,
			       COALESCE(SUM(t.amount), 0)::text AS invested
			FROM investors i
			LEFT JOIN transactions t
			  ON t.type = 'investment' AND t.investor_name = i.name
			GROUP BY i.name, i.ownership_pct, i.profit_share_pct
			ORDER BY invested DESC, i.name`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		investors := make([]domain.Investor, 0)
		for rows.Next() {
			var (
				inv                              domain.Investor
				ownership, profitShare, invested string
			)
			if err := rows.Scan(&inv.Name, &ownership, &profitShare, &invested); err != nil {
				return nil, err
			}
			if inv.OwnershipPct, err = parseAmount(ownership); err != nil {
				return nil, err
			}
			if inv.ProfitSharePct, err = parseAmount(profitShare); err != nil {
				return nil, err
			}
			if inv.Invested, err = parseAmount(invested); err != nil {
				return nil, err
			}
			investors = append(investors, inv)
		}
		return investors, rows.Err()
	})
}

// UpsertInvestor inserts or updates an investor's percentages using a
// conflict clause, avoiding a check-then-act race.
func (s *Store) UpsertInvestor(ctx context.Context, inv *domain.Investor) error {
	_, err := execute(s, "upsert_investor", func() (struct{}, error) {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO investors (name, ownership_pct, profit_share_pct)
			VALUES ($1, $2::numeric, $3::numeric)
			ON CONFLICT (name) DO UPDATE
			SET ownership_pct = EXCLUDED.ownership_pct,
			    profit_share_pct = EXCLUDED.profit_share_pct`,
			inv.Name, inv.OwnershipPct.StringFixed(2), inv.ProfitSharePct.StringFixed(2))
		return struct{}{}, err
	})
	return err
}
