package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoToken is returned by the token source when no session is active.
var ErrNoToken = errors.New("no session token")

// MemoryStore is a [Store] that keeps data in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	data   Data
	Events []string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *MemoryStore) Save(ctx context.Context, d Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = d
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = Data{}
	return nil
}

// RecordEvent appends "username:kind" to Events.
func (m *MemoryStore) RecordEvent(ctx context.Context, username, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, username+":"+kind)
	return nil
}
