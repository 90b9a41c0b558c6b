// Package postgres persists run history when a database is configured.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"biaslens/ports"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS run_history (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	file_path   TEXT NOT NULL,
	column_name TEXT NOT NULL DEFAULT '',
	method      TEXT NOT NULL DEFAULT '',
	detail      TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// historyRepository implements ports.HistoryRepository on Postgres
type historyRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository connects to the database and ensures the run_history
// table exists.
func NewHistoryRepository(databaseURL string) (ports.HistoryRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		return nil, fmt.Errorf("failed to ensure run_history table: %w", err)
	}
	return &historyRepository{db: db}, nil
}

// Record inserts a run record
func (r *historyRepository) Record(ctx context.Context, rec ports.RunRecord) error {
	query := `INSERT INTO run_history (id, kind, file_path, column_name, method, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Kind, rec.FilePath, rec.Column, rec.Method, rec.Detail, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns the most recent run records, newest first
func (r *historyRepository) List(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	query := `SELECT id, kind, file_path, column_name, method, detail, created_at
		FROM run_history ORDER BY created_at DESC LIMIT $1`

	var records []ports.RunRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list run history: %w", err)
	}
	return records, nil
}
