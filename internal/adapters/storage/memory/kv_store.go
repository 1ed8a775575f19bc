package memory

import (
	"context"
	"sync"
)

// KVStore is an in-memory domain.KVStore.
// It is NOT persistent and is only suitable for development / local mode.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVStore() *KVStore {
	return &KVStore{
		values: make(map[string]string),
	}
}

func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *KVStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Len is the number of stored keys.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
