package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.payloads[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[key] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStore) PutAll(_ context.Context, payloads map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, payload := range payloads {
		s.payloads[key] = append([]byte(nil), payload...)
	}
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
