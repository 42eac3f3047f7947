package repository

import (
	"context"
	"sync"
)

type memoryKVStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryKVStore() KVStore {
	return &memoryKVStore{
		entries: make(map[string][]byte),
	}
}

func (s *memoryKVStore) Get(_ context.Context, keys ...string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok := s.entries[key]; ok {
			out[key] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (s *memoryKVStore) Set(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range entries {
		s.entries[key] = append([]byte(nil), value...)
	}
	return nil
}

func (s *memoryKVStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
