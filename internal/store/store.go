// Package store holds the per-dataset configuration selections made through
// the API: column type designations and selected feature lists, keyed by the
// dataset's relative file path. The stores are explicit values passed into
// the handlers by reference, not process globals.
package store

import (
	"sync"
)

// ColumnTypes is a caller-supplied categorical/continuous designation.
type ColumnTypes struct {
	Categorical []string `json:"categorical"`
	Continuous  []string `json:"continuous"`
}

// ColumnTypesStore maps dataset paths to their column type selections.
type ColumnTypesStore struct {
	mu sync.RWMutex
	m  map[string]ColumnTypes
}

// NewColumnTypesStore creates an empty store.
func NewColumnTypesStore() *ColumnTypesStore {
	return &ColumnTypesStore{m: make(map[string]ColumnTypes)}
}

// Set saves the selection for a dataset path.
func (s *ColumnTypesStore) Set(filePath string, types ColumnTypes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[filePath] = types
}

// Get returns the selection for a dataset path.
func (s *ColumnTypesStore) Get(filePath string) (ColumnTypes, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.m[filePath]
	return t, ok
}

// SelectedFeaturesStore maps dataset paths to their selected feature lists.
type SelectedFeaturesStore struct {
	mu sync.RWMutex
	m  map[string][]string
}

// NewSelectedFeaturesStore creates an empty store.
func NewSelectedFeaturesStore() *SelectedFeaturesStore {
	return &SelectedFeaturesStore{m: make(map[string][]string)}
}

// Set saves the selected features for a dataset path.
func (s *SelectedFeaturesStore) Set(filePath string, features []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[filePath] = append([]string(nil), features...)
}

// Get returns the selected features for a dataset path.
func (s *SelectedFeaturesStore) Get(filePath string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.m[filePath]
	return f, ok
}
