package repository

import (
	"context"
	"sync"

	"clientregistry/internal/search/domain"
	"clientregistry/internal/search/predicate"
)

// Memory is a Store over an in-process record slice. It evaluates the same
// expressions the Postgres store compiles.
type Memory struct {
	mu      sync.RWMutex
	records []domain.CandidateRecord
}

// NewMemory creates a store holding a copy of records.
func NewMemory(records ...domain.CandidateRecord) *Memory {
	m := &Memory{}
	m.Replace(records)
	return m
}

// Replace swaps the whole record set.
func (m *Memory) Replace(records []domain.CandidateRecord) {
	cp := make([]domain.CandidateRecord, len(records))
	copy(cp, records)

	m.mu.Lock()
	m.records = cp
	m.mu.Unlock()
}

// FetchCandidates returns the matching records in insertion order.
func (m *Memory) FetchCandidates(ctx context.Context, expr predicate.Expression) ([]domain.CandidateRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.CandidateRecord, 0, len(m.records))
	for _, rec := range m.records {
		if expr.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ Store = (*Memory)(nil)
