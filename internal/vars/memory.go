package vars

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/palaver/internal/dialogue"
)

// Memory is an in-process Store backed by a map. Values do not survive the
// process; use SQLite for durable sessions.
type Memory struct {
	mu     sync.RWMutex
	values map[string]dialogue.Value
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]dialogue.Value)}
}

// Seed creates an in-memory store pre-populated with the given values.
func Seed(values map[string]dialogue.Value) *Memory {
	m := NewMemory()
	for name, v := range values {
		m.values[name] = v
	}
	return m
}

func (m *Memory) Get(_ context.Context, name string) (dialogue.Value, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, name string, v dialogue.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = v
	return nil
}

func (m *Memory) Has(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[name]
	return ok, nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]dialogue.Value)
	return nil
}

func (m *Memory) Names(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
