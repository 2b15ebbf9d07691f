package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// NewDBConnection opens the pool and proves it with a ping.
func NewDBConnection(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the leads table when it does not exist yet. Kept
// inline instead of a migration tool: one table, additive changes only.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id                 UUID PRIMARY KEY,
			email              TEXT NOT NULL UNIQUE,
			source             TEXT NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL,
			last_updated       TIMESTAMPTZ,
			status             TEXT NOT NULL DEFAULT 'early-access',
			paid_at            TIMESTAMPTZ,
			welcome_sent       BOOLEAN NOT NULL DEFAULT FALSE,
			welcome_sent_at    TIMESTAMPTZ,
			follow_up_sent     BOOLEAN NOT NULL DEFAULT FALSE,
			follow_up_sent_at  TIMESTAMPTZ,
			onboarding_sent    BOOLEAN NOT NULL DEFAULT FALSE,
			onboarding_sent_at TIMESTAMPTZ
		)
	`)
	return err
}
