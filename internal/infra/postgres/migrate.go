package postgres

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		type TEXT NOT NULL CHECK (type IN ('income', 'expense', 'investment')),
		category TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
		note TEXT,
		investor_name TEXT,
		transaction_date DATE NOT NULL DEFAULT CURRENT_DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS transaction_date DATE DEFAULT CURRENT_DATE`,
	`UPDATE transactions SET transaction_date = DATE(created_at) WHERE transaction_date IS NULL`,
	`CREATE TABLE IF NOT EXISTS investors (
		name TEXT PRIMARY KEY,
		ownership_pct NUMERIC(7,2) NOT NULL DEFAULT 0,
		profit_share_pct NUMERIC(7,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS recurring_costs (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
		billing_cycle TEXT NOT NULL CHECK (billing_cycle IN ('daily', 'weekly', 'monthly', 'yearly'))
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		done BOOLEAN NOT NULL DEFAULT FALSE,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		done_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		name TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id SERIAL PRIMARY KEY,
		action VARCHAR(50) NOT NULL,
		details TEXT NOT NULL,
		performed_by VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (transaction_date)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions (type)`,
}

// Migrate creates the schema if missing. Statements are idempotent, so
// running it on every startup is safe.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	s.logger.Info("schema verified")
	return s.seedAdmin(ctx)
}

// seedAdmin creates the default admin login when no users exist yet.
func (s *Store) seedAdmin(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING`,
		"admin", string(hash),
	); err != nil {
		return err
	}

	s.logger.Info("default admin created", zap.String("username", "admin"))
	return nil
}
