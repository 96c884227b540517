package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the repositories depend on.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS session_messages (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_messages_session_id ON session_messages (session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS address_audits (
			id UUID PRIMARY KEY,
			request TEXT NOT NULL,
			response TEXT NOT NULL,
			status_code INT NOT NULL,
			succeeded BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
