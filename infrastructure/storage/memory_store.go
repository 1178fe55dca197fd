package storage

import (
	"blog-bus/contract"
	"blog-bus/errors"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var _ contract.Store = (*MemoryStore)(nil)

// MemoryStore keeps values in a map. Values are copied on the way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotFound, key)
	}
	return slices.Clone(v), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	// Snapshot first so fn may call back into the store.
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	values := make(map[string][]byte, len(keys))
	for _, k := range keys {
		values[k] = slices.Clone(s.values[k])
	}
	s.mu.RUnlock()

	slices.Sort(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
