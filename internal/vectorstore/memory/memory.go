package memory

import (
	"errors"
	"sync"

	"yase/internal/domain"
)

// Storage keeps records in memory. It is meant for library callers and tests
// that want the records without touching the file system.
type Storage struct {
	mu      sync.RWMutex
	run     domain.RunInfo
	records []domain.Record
	inited  bool
	closed  bool
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(run domain.RunInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = run
	s.records = nil
	s.inited = true
	s.closed = false
	return nil
}

func (s *Storage) Append(rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inited {
		return errors.New("memory storage not initialised")
	}
	if s.closed {
		return errors.New("memory storage closed")
	}
	rec.Vectors = append([]domain.Vector(nil), rec.Vectors...)
	rec.Unknown = append([]string(nil), rec.Unknown...)
	s.records = append(s.records, rec)
	return nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Records returns a copy of the stored records in append order.
func (s *Storage) Records() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Record(nil), s.records...)
}

// Run returns the run description passed to Init.
func (s *Storage) Run() domain.RunInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run
}

// Closed reports whether Close has been called.
func (s *Storage) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
