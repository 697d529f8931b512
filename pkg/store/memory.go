package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process [Store].
type Memory struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*Record)}
}

// Save stores a copy of r.
func (m *Memory) Save(_ context.Context, r *Record) error {
	prepare(r)
	cp := *r
	cp.Formats = slices.Clone(r.Formats)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = &cp
	return nil
}

// Get returns a copy of the record.
func (m *Memory) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *r
	return &cp, nil
}

// List returns records newest first, ties broken by ID.
func (m *Memory) List(_ context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	out := make([]*Record, 0, len(m.records))
	for _, r := range m.records {
		cp := *r
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Delete removes a record.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return notFound(id)
	}
	delete(m.records, id)
	return nil
}

// Close does nothing.
func (m *Memory) Close(context.Context) error { return nil }

var _ Store = (*Memory)(nil)
