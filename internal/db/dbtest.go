package db

import (
	"context"
	"errors"
	"os"
)

// OpenTestStore connects to TEST_DATABASE_URL and applies migrations. Tests
// that need Postgres skip when it is not set.
func OpenTestStore(ctx context.Context, migrationsPath string) (Store, error) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("TEST_DATABASE_URL environment variable is not set")
	}

	conn, err := Connect(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, conn, migrationsPath); err != nil {
		return nil, err
	}
	return NewStore(conn), nil
}
