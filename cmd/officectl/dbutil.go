package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/jacksonlee411/office-ops/pkg/configuration"
)

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, configuration.Use().Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

// openSQL opens a database/sql handle for goose, which does not speak pgxpool.
func openSQL() (*sql.DB, error) {
	db, err := sql.Open("postgres", configuration.Use().Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}
	return db, nil
}
