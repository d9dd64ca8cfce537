package storage

import (
	"context"
	"sync"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// Memory keeps values in a map. Values are copied on the way in and out.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Get returns the stored value or domain.ErrNotFound.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, domain.NewNotFoundError("key", key)
	}

	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)

	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Name implements ports.HealthChecker.
func (m *Memory) Name() string { return "storage" }

// Check implements ports.HealthChecker.
func (m *Memory) Check(_ context.Context) error { return nil }
