package postgres

import (
	"context"
	"fmt"

	"github.com/netigo/netigo-go/internal/domain"
)

// ListRecurringCosts returns all recurring costs, by name.
func (s *Store) ListRecurringCosts(ctx context.Context) ([]domain.RecurringCost, error) {
	return execute(s, "list_recurring", func() ([]domain.RecurringCost, error) {
		rows, err := s.pool.Query(ctx, `
			SELECT id, name, amount::text, billing_cycle
			FROM recurring_costs
			ORDER BY name`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		costs := make([]domain.RecurringCost, 0)
		for rows.Next() {
			var (
				rc     domain.RecurringCost
				amount string
			)
			if err := rows.Scan(&rc.ID, &rc.Name, &amount, &rc.BillingCycle); err != nil {
				return nil, err
			}
			if rc.Amount, err = parseAmount(amount); err != nil {
				return nil, err
			}
			costs = append(costs, rc)
		}
		return costs, rows.Err()
	})
}

// InsertRecurringCost inserts a recurring cost and fills in its id.
func (s *Store) InsertRecurringCost(ctx context.Context, rc *domain.RecurringCost) error {
	_, err := execute(s, "insert_recurring", func() (struct{}, error) {
		err := s.pool.QueryRow(ctx, `
			INSERT INTO recurring_costs (name, amount, billing_cycle)
			VALUES ($1, $2::numeric, $3)
			RETURNING id`,
			rc.Name, rc.Amount.StringFixed(2), rc.BillingCycle,
		).Scan(&rc.ID)
		return struct{}{}, err
	})
	return err
}

// DeleteRecurringCost removes a recurring cost by id.
func (s *Store) DeleteRecurringCost(ctx context.Context, id int64) error {
	affected, err := execute(s, "delete_recurring", func() (int64, error) {
		tag, err := s.pool.Exec(ctx, `DELETE FROM recurring_costs WHERE id = $1`, id)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "recurring cost", ID: fmt.Sprint(id)}
	}
	return nil
}
