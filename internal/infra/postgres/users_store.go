package postgres

import (
	"context"
	"errors"

	"github.com/netigo/netigo-go/internal/domain"

	"github.com/jackc/pgx/v5"
)

// GetUserByUsername looks up a login. A missing user returns (nil, nil)
// so the auth service can answer with a uniform "invalid credentials".
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return execute(s, "get_user", func() (*domain.User, error) {
		var u domain.User
		err := s.pool.QueryRow(ctx,
			`SELECT id, username, password FROM users WHERE username = $1`, username,
		).Scan(&u.ID, &u.Username, &u.PasswordHash)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &u, nil
	})
}
