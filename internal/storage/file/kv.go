// Package file stores each key as a JSON document in a directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/pkg/log"
)

var validKey = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

type KV struct {
	dir string
	mu  sync.RWMutex
}

func NewKV(dir string) (*KV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &KV{dir: dir}, nil
}

func (s *KV) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: invalid storage key %q", core.ErrValidation, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(p)
	s.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes to a temp file and renames it over the target.
func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0600); err != nil {
		return fmt.Errorf("%w: write %s: %v", core.ErrStorageWrite, key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("%w: rename %s: %v", core.ErrStorageWrite, key, err)
	}

	log.FromCtx(ctx).Debug().Str("key", key).Int("bytes", len(value)).Msg("stored value")
	return nil
}

func (s *KV) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete %s: %v", core.ErrStorageWrite, key, err)
	}
	return nil
}
