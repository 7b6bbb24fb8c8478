// Package memory provides an in-process KVStore, used for ephemeral runs
// and as the storage fake in tests.
package memory

import (
	"context"
	"sync"

	"github.com/sandevgo/quorum/internal/core"
)

type KV struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes Set and Delete return core.ErrStorageWrite.
	FailWrites bool
}

func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (s *KV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *KV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return core.ErrStorageWrite
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *KV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return core.ErrStorageWrite
	}
	delete(s.data, key)
	return nil
}

// Has reports whether key is present.
func (s *KV) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}
