package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/capmanage/capmanage/internal/auth/store/drivers/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUp is swapped out in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// ApplyMigrations runs the embedded goose migrations.
func (s *Store) ApplyMigrations() error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("postgres: goose dialect: %w", err)
	}

	if err := gooseUp(context.Background(), s.db, "."); err != nil {
		return fmt.Errorf("postgres: migrate up: %w", err)
	}
	return nil
}
