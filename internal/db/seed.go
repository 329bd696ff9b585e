package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDemo inserts a demo user with two notes when the notes table is empty.
// Used by cmd/seed for local environments.
func SeedDemo(ctx context.Context, pool *pgxpool.Pool) error {
	var count int

	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count)

	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	now := time.Now().UTC()

	var userID int64

	err = pool.QueryRow(ctx,
		`INSERT INTO users (email, created_at, updated_at)
		 VALUES ($1, $2, $2)
		 ON CONFLICT (email) DO UPDATE SET updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		"demo@noteshub.local", now,
	).Scan(&userID)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO notes (title, body, user_id, created_at, updated_at)
		 VALUES
			($1, $2, $5, $6, $6),
			($3, $4, $5, $6, $6)`,
		"hello", "From seed",
		"Docker", "Compose dev",
		userID, now,
	)

	return err
}
