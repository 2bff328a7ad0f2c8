package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"salesdash/internal/models"
)

// Store holds the current canonical row set. Loads are full replacements:
// each one gets a fresh snapshot id and the previous slice is dropped whole.
// Rows handed out are shared read-only; nothing mutates them after a load.
type Store struct {
	mu        sync.RWMutex
	rows      []models.SalesRecord
	snapshot  string
	loadedAt  time.Time
	hasLoaded bool
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs a new row set and returns its snapshot id.
func (s *Store) Replace(rows []models.SalesRecord) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.rows = rows
	s.snapshot = id
	s.loadedAt = time.Now()
	s.hasLoaded = true
	s.mu.Unlock()
	return id
}

// Rows returns the current row set and its snapshot id.
func (s *Store) Rows() ([]models.SalesRecord, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows, s.snapshot
}

// Ready reports whether an initial load has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasLoaded
}

// Len is the current row count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// LoadedAt is the time of the last successful load.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
