package journey

import (
	"context"
	"sync"
)

// MemoryStore implements Store in memory. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
	saves   int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadLast returns a copy of the last saved session
func (m *MemoryStore) LoadLast(ctx context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, ErrSessionNotFound
	}
	return m.session.Clone(), nil
}

// Save keeps a copy of the session
func (m *MemoryStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrNilSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = session.Clone()
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
