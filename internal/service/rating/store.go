// Package rating keeps user scores for answers, keyed by session and answer
// id, written through to durable storage on every change.
package rating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/pkg/log"
)

// legacySession holds ratings loaded from the old flat format, where scores
// were keyed by bare answer id.
const legacySession = ""

// Ratings maps session id to answer id to score.
type Ratings map[string]map[string]int

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	kv      core.KVStore
	ratings Ratings
}

func NewStore(kv core.KVStore) *Store {
	return &Store{
		kv:      kv,
		ratings: make(Ratings),
	}
}

// Load restores ratings from storage. A missing entry yields an empty set.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, core.RatingsKey)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.mu.Lock()
			s.ratings = make(Ratings)
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to load ratings: %w", err)
	}

	ratings, err := decode(data)
	if err != nil {
		return fmt.Errorf("failed to parse ratings: %w", err)
	}
	s.mu.Lock()
	s.ratings = ratings
	s.mu.Unlock()

	log.FromCtx(ctx).Debug().Int("sessions", len(ratings)).Msg("loaded ratings")
	return nil
}

// decode accepts both the nested format and the legacy flat one.
func decode(data []byte) (Ratings, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ratings := make(Ratings, len(raw))
	for key, value := range raw {
		var nested map[string]int
		if err := json.Unmarshal(value, &nested); err == nil {
			if nested == nil {
				nested = make(map[string]int)
			}
			ratings[key] = nested
			continue
		}

		var score int
		if err := json.Unmarshal(value, &score); err != nil {
			return nil, fmt.Errorf("rating %q: %w", key, err)
		}
		if ratings[legacySession] == nil {
			ratings[legacySession] = make(map[string]int)
		}
		ratings[legacySession][key] = score
	}
	return ratings, nil
}

// Rate inserts or overwrites a score and persists before returning. When
// persisting fails the in-memory score is kept and the error is returned.
func (s *Store) Rate(ctx context.Context, sessionID, answerID string, score int) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", core.ErrValidation)
	}
	if strings.TrimSpace(answerID) == "" {
		return fmt.Errorf("%w: answer id is required", core.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ratings[sessionID] == nil {
		s.ratings[sessionID] = make(map[string]int)
	}
	s.ratings[sessionID][answerID] = score

	if err := s.persist(ctx); err != nil {
		log.FromCtx(ctx).Error().Err(err).
			Str("session", sessionID).
			Str("answer", answerID).
			Msg("failed to persist rating")
		return err
	}
	return nil
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.ratings)
	if err != nil {
		return fmt.Errorf("%w: marshal ratings: %v", core.ErrStorageWrite, err)
	}
	if err := s.kv.Set(ctx, core.RatingsKey, data); err != nil {
		if errors.Is(err, core.ErrStorageWrite) {
			return err
		}
		return fmt.Errorf("%w: %v", core.ErrStorageWrite, err)
	}
	return nil
}

// Score returns the rating for an answer. An exact session match wins over
// a legacy bare-id rating.
func (s *Store) Score(sessionID, answerID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if score, ok := s.ratings[sessionID][answerID]; ok {
		return score, true
	}
	score, ok := s.ratings[legacySession][answerID]
	return score, ok
}

// Snapshot returns a copy of all ratings.
func (s *Store) Snapshot() Ratings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Ratings, len(s.ratings))
	for session, answers := range s.ratings {
		inner := make(map[string]int, len(answers))
		for id, score := range answers {
			inner[id] = score
		}
		out[session] = inner
	}
	return out
}

// ParseScore converts user input to a score. Anything that is not a finite
// integer within the int range is a validation error; "3" and "3.0" are the
// same score.
func ParseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if score, err := strconv.Atoi(raw); err == nil {
		return score, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%w: score %q is not a number", core.ErrValidation, raw)
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, fmt.Errorf("%w: score %q is not finite", core.ErrValidation, raw)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("%w: score %q is not an integer", core.ErrValidation, raw)
	case f >= math.MaxInt || f < math.MinInt:
		return 0, fmt.Errorf("%w: score %q is out of range", core.ErrValidation, raw)
	}
	return int(f), nil
}
