// Package history keeps the bounded, most-recent-first ledger of past
// question sessions and its query view.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/pkg/log"
)

// DefaultCapacity is the number of sessions the ledger retains.
const DefaultCapacity = 100

// Ledger is safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	kv       core.KVStore
	remote   core.HistoryService
	entries  []core.SessionSummary
	capacity int
}

type Option func(*Ledger)

// WithCapacity overrides DefaultCapacity. Values below one are ignored.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.capacity = n
		}
	}
}

func NewLedger(kv core.KVStore, remote core.HistoryService, opts ...Option) *Ledger {
	l := &Ledger{
		kv:       kv,
		remote:   remote,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load restores the ledger from storage, keeping at most capacity entries.
func (l *Ledger) Load(ctx context.Context) error {
	data, err := l.kv.Get(ctx, core.HistoryKey)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			l.mu.Lock()
			l.entries = nil
			l.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to load history: %w", err)
	}

	var entries []core.SessionSummary
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse history: %w", err)
	}

	l.mu.Lock()
	l.entries = l.truncate(entries)
	count := len(l.entries)
	l.mu.Unlock()

	log.FromCtx(ctx).Debug().Int("count", count).Msg("loaded history ledger")
	return nil
}

// Append inserts summary at the head and persists. The answer count is
// recomputed from the answers. A storage failure is logged and the
// in-memory insert stands.
func (l *Ledger) Append(ctx context.Context, summary core.SessionSummary) {
	summary.Answers = slices.Clone(summary.Answers)
	summary.AnswersCount = len(summary.Answers)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.truncate(slices.Insert(l.entries, 0, summary))
	l.persist(ctx)
}

// DeleteByID removes the first entry with id. Unknown ids are ignored.
func (l *Ledger) DeleteByID(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := slices.IndexFunc(l.entries, func(s core.SessionSummary) bool { return s.ID == id })
	if idx == -1 {
		return
	}
	l.entries = slices.Delete(l.entries, idx, idx+1)
	l.persist(ctx)
}

// Clear empties the ledger and removes the stored copy.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	if err := l.kv.Delete(ctx, core.HistoryKey); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to delete stored history")
	}
}

// LoadFromRemote replaces the ledger with the user's remote history and
// caches it locally. A failed fetch is logged and yields an empty result
// with the ledger left as it was.
func (l *Ledger) LoadFromRemote(ctx context.Context, userID string, limit int) []core.SessionSummary {
	out, err := l.Sync(ctx, userID, limit)
	if err != nil {
		return []core.SessionSummary{}
	}
	return out
}

// Sync is LoadFromRemote that also returns the fetch error, wrapped as
// core.ErrHistoryFetchFailed.
func (l *Ledger) Sync(ctx context.Context, userID string, limit int) ([]core.SessionSummary, error) {
	logger := log.FromCtx(ctx)
	if l.remote == nil {
		err := fmt.Errorf("%w: no history service configured", core.ErrHistoryFetchFailed)
		logger.Warn().Err(err).Msg("failed to load history")
		return nil, err
	}

	fetched, err := l.remote.FetchHistory(ctx, userID, limit)
	if err != nil {
		if !errors.Is(err, core.ErrHistoryFetchFailed) {
			err = fmt.Errorf("%w: %v", core.ErrHistoryFetchFailed, err)
		}
		logger.Warn().Err(err).Str("user", userID).Msg("failed to load history")
		return nil, err
	}

	entries := make([]core.SessionSummary, len(fetched))
	for i, s := range fetched {
		s.Answers = slices.Clone(s.Answers)
		s.AnswersCount = len(s.Answers)
		entries[i] = s
	}

	l.mu.Lock()
	l.entries = l.truncate(entries)
	l.persist(ctx)
	out := slices.Clone(l.entries)
	l.mu.Unlock()

	logger.Info().Int("count", len(out)).Msg("loaded history from remote")
	if out == nil {
		return []core.SessionSummary{}, nil
	}
	return out, nil
}

// Get returns the entry with id.
func (l *Ledger) Get(id string) (core.SessionSummary, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := slices.IndexFunc(l.entries, func(s core.SessionSummary) bool { return s.ID == id })
	if idx == -1 {
		return core.SessionSummary{}, false
	}
	return l.entries[idx], true
}

// Entries returns the ledger in insertion order, most recent first.
func (l *Ledger) Entries() []core.SessionSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := slices.Clone(l.entries)
	if out == nil {
		return []core.SessionSummary{}
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Ledger) truncate(entries []core.SessionSummary) []core.SessionSummary {
	if len(entries) > l.capacity {
		return slices.Clip(entries[:l.capacity])
	}
	return entries
}

// persist must be called with mu held.
func (l *Ledger) persist(ctx context.Context) {
	entries := l.entries
	if entries == nil {
		entries = []core.SessionSummary{}
	}

	data, err := json.Marshal(entries)
	if err == nil {
		err = l.kv.Set(ctx, core.HistoryKey, data)
	}
	if err != nil {
		if !errors.Is(err, core.ErrStorageWrite) {
			err = fmt.Errorf("%w: %v", core.ErrStorageWrite, err)
		}
		log.FromCtx(ctx).Error().Err(err).Int("count", len(entries)).Msg("failed to persist history")
	}
}
