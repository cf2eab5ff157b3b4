package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karim-nassar/invoice-extractor/internal/common"
)

// MemoryStore is an InvoiceStore held entirely in memory. It backs tests
// and store-less runs where results are only needed for the export step.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*InvoiceRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[uuid.UUID]*InvoiceRecord{}}
}

func (s *MemoryStore) Save(_ context.Context, rec *InvoiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	clone := *rec
	s.records[rec.ID] = &clone
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*InvoiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*InvoiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*InvoiceRecord, 0, len(s.records))
	for _, rec := range s.records {
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
