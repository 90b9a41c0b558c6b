// Package ports declares the interfaces the application core depends on.
package ports

import (
	"context"
	"time"
)

// RunKind distinguishes the recorded operations.
type RunKind string

const (
	RunBiasDetect RunKind = "bias_detect"
	RunBiasFix    RunKind = "bias_fix"
	RunSkewDetect RunKind = "skew_detect"
	RunSkewFix    RunKind = "skew_fix"
	RunReport     RunKind = "report"
)

// RunRecord is one detection or correction run, kept for reporting and
// audit.
type RunRecord struct {
	ID        string    `db:"id" json:"id"`
	Kind      RunKind   `db:"kind" json:"kind"`
	FilePath  string    `db:"file_path" json:"file_path"`
	Column    string    `db:"column_name" json:"column"`
	Method    string    `db:"method" json:"method,omitempty"`
	Detail    string    `db:"detail" json:"detail,omitempty"` // JSON blob
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HistoryRepository stores run records. Implementations: Postgres when a
// DATABASE_URL is configured, in-memory otherwise.
type HistoryRepository interface {
	Record(ctx context.Context, rec RunRecord) error
	List(ctx context.Context, limit int) ([]RunRecord, error)
}
