package client

import "sync"

// Persisted client-local keys. Independent of any account.
const (
	deviceIDKey     = "baseline_device_id"
	previewCountKey = "baseline_preview_calculations"
)

// LocalStore abstracts the client-side persisted key-value state. The web
// build backs it with browser localStorage; tests and headless embedders use
// MemStore. Get returns "" for absent keys.
type LocalStore interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// MemStore is an in-memory LocalStore.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *MemStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
