// Package memory provides the in-process fallbacks used when no database is
// configured.
package memory

import (
	"context"
	"sync"

	"biaslens/ports"
)

// historyRepository keeps run records in memory, newest last.
type historyRepository struct {
	mu      sync.RWMutex
	records []ports.RunRecord
}

// NewHistoryRepository returns an in-memory ports.HistoryRepository.
func NewHistoryRepository() ports.HistoryRepository {
	return &historyRepository{}
}

func (r *historyRepository) Record(_ context.Context, rec ports.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *historyRepository) List(_ context.Context, limit int) ([]ports.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.records)
	if limit > n {
		limit = n
	}
	out := make([]ports.RunRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}
