package postgres

import (
	"context"

	"github.com/netigo/netigo-go/internal/domain"
)

// InsertAuditEntry records one audit row.
func (s *Store) InsertAuditEntry(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := execute(s, "insert_audit", func() (struct{}, error) {
		err := s.pool.QueryRow(ctx, `
			INSERT INTO audit_logs (action, details, performed_by)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			entry.Action, entry.Details, entry.PerformedBy,
		).Scan(&entry.ID, &entry.CreatedAt)
		return struct{}{}, err
	})
	return err
}

// ListAuditEntries returns the most recent entries, newest first.
func (s *Store) ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return execute(s, "list_audit", func() ([]domain.AuditEntry, error) {
		rows, err := s.pool.Query(ctx, `
			SELECT id, action, details, performed_by, created_at
			FROM audit_logs
			ORDER BY created_at DESC, id DESC
			LIMIT $1`, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		entries := make([]domain.AuditEntry, 0)
		for rows.Next() {
			var e domain.AuditEntry
			if err := rows.Scan(&e.ID, &e.Action, &e.Details, &e.PerformedBy, &e.CreatedAt); err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		return entries, rows.Err()
	})
}
