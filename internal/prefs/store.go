package prefs

import "sync"

// Store is a small typed key-value store for device-local preferences.
// A missing key is reported with ok=false and is never an error.
type Store interface {
	GetInt64(key Key) (int64, bool)
	SetInt64(key Key, value int64) error
	Remove(keys ...Key) error
}

// Persister is implemented by stores that keep a local snapshot.
type Persister interface {
	Load() error
	Save() error
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[Key]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]int64)}
}

func (m *MemoryStore) GetInt64(key Key) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) SetInt64(key Key, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(keys ...Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
