// Package migrations embeds the goose SQL migrations for the office-ops schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

func NewProvider(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, FS)
	if err != nil {
		return nil, errors.Wrap(err, "create migration provider")
	}
	return p, nil
}

// Up applies every pending migration and returns one line per applied file.
func Up(ctx context.Context, db *sql.DB) ([]string, error) {
	p, err := NewProvider(db)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "migrate up")
	}
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, fmt.Sprintf("OK   %s (%s)", r.Source.Path, r.Duration))
	}
	return out, nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB) (string, error) {
	p, err := NewProvider(db)
	if err != nil {
		return "", err
	}
	r, err := p.Down(ctx)
	if err != nil {
		return "", errors.Wrap(err, "migrate down")
	}
	return fmt.Sprintf("OK   %s (%s)", r.Source.Path, r.Duration), nil
}

func Status(ctx context.Context, db *sql.DB) ([]string, error) {
	p, err := NewProvider(db)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "migrate status")
	}
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		applied := "Pending"
		if s.State == goose.StateApplied {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		out = append(out, fmt.Sprintf("%-20s %s", applied, s.Source.Path))
	}
	return out, nil
}
