package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/studymate/internal/domain"
)

type memCollection struct {
	order []string
	data  map[string][]byte
}

// Memory is an in-process KV. Contents are lost on exit.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) GetAll(_ context.Context, collection string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.collections[collection]
	if c == nil {
		return nil, nil
	}
	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Record{ID: id, Data: clone(c.data[id])})
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c := m.collections[collection]; c != nil {
		if data, ok := c.data[id]; ok {
			return Record{ID: id, Data: clone(data)}, nil
		}
	}
	return Record{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
}

func (m *Memory) Put(_ context.Context, collection string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collections[collection]
	if c == nil {
		c = &memCollection{data: make(map[string][]byte)}
		m.collections[collection] = c
	}
	if _, exists := c.data[rec.ID]; !exists {
		c.order = append(c.order, rec.ID)
	}
	c.data[rec.ID] = clone(rec.Data)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collections[collection]
	if c == nil {
		return nil
	}
	if _, ok := c.data[id]; !ok {
		return nil
	}
	delete(c.data, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Clear(_ context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
	return nil
}

func (m *Memory) Close() error { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
