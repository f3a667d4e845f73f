package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/netigo/netigo-go/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ListNotes returns all notes, newest first.
func (s *Store) ListNotes(ctx context.Context) ([]domain.Note, error) {
	return execute(s, "list_notes", func() ([]domain.Note, error) {
		rows, err := s.pool.Query(ctx, `
			SELECT id, content, done, created_by, created_at, done_at
			FROM notes
			ORDER BY created_at DESC`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		notes := make([]domain.Note, 0)
		for rows.Next() {
			var n domain.Note
			if err := rows.Scan(&n.ID, &n.Content, &n.Done, &n.CreatedBy, &n.CreatedAt, &n.DoneAt); err != nil {
				return nil, err
			}
			notes = append(notes, n)
		}
		return notes, rows.Err()
	})
}

// InsertNote inserts a note and fills in its id and created_at.
func (s *Store) InsertNote(ctx context.Context, note *domain.Note) error {
	_, err := execute(s, "insert_note", func() (struct{}, error) {
		err := s.pool.QueryRow(ctx, `
			INSERT INTO notes (content, created_by)
			VALUES ($1, $2)
			RETURNING id, created_at`,
			note.Content, note.CreatedBy,
		).Scan(&note.ID, &note.CreatedAt)
		return struct{}{}, err
	})
	return err
}

// ToggleNote flips the done flag, stamping done_at when a note becomes
// done and clearing it when reopened.
func (s *Store) ToggleNote(ctx context.Context, id int64) (*domain.Note, error) {
	note, err := execute(s, "toggle_note", func() (*domain.Note, error) {
		var n domain.Note
		err := s.pool.QueryRow(ctx, `
			UPDATE notes
			SET done = NOT done,
			    done_at = CASE WHEN NOT done THEN NOW() ELSE NULL END
			WHERE id = $1
			RETURNING id, content, done, created_by, created_at, done_at`, id,
		).Scan(&n.ID, &n.Content, &n.Done, &n.CreatedBy, &n.CreatedAt, &n.DoneAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &n, nil
	})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, &domain.ErrNotFound{Resource: "note", ID: fmt.Sprint(id)}
	}
	return note, nil
}

// DeleteNote removes a note by id.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	affected, err := execute(s, "delete_note", func() (int64, error) {
		tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "note", ID: fmt.Sprint(id)}
	}
	return nil
}

// DeleteDoneBefore removes done notes completed before the cutoff.
func (s *Store) DeleteDoneBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	return execute(s, "delete_done_before", func() (int64, error) {
		tag, err := s.pool.Exec(ctx,
			`DELETE FROM notes WHERE done AND done_at IS NOT NULL AND done_at < $1`, cutoff.Time)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
}
