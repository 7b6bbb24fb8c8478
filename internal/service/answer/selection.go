package answer

import (
	"fmt"
	"sync"

	"github.com/sandevgo/quorum/internal/core"
)

// PersistFunc stores the current filter and recommendation policy.
type PersistFunc func(core.FilterConfig, core.RecommendationConfig) error

// Selection serializes access to a FilterEngine and a Recommender and
// persists every successful change. It is safe for concurrent use.
type Selection struct {
	mu          sync.RWMutex
	filter      *FilterEngine
	recommender *Recommender
	persist     PersistFunc
}

func NewSelection(filter *FilterEngine, recommender *Recommender, persist PersistFunc) *Selection {
	return &Selection{
		filter:      filter,
		recommender: recommender,
		persist:     persist,
	}
}

func (s *Selection) FilterConfig() core.FilterConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Config()
}

func (s *Selection) RecommendationConfig() core.RecommendationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recommender.Config()
}

// UpdateFilter applies u. A validation error leaves the config unchanged.
// A persist error is returned after the in-memory change.
func (s *Selection) UpdateFilter(u core.FilterUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.filter.Update(u); err != nil {
		return err
	}
	return s.save()
}

// ResetFilter disables every filter predicate.
func (s *Selection) ResetFilter() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.filter.Replace(core.FilterConfig{}); err != nil {
		return err
	}
	return s.save()
}

func (s *Selection) UpdateRecommendation(u core.RecommendationUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recommender.Update(u)
	return s.save()
}

// ResetRecommendation restores the default policy.
func (s *Selection) ResetRecommendation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recommender.Replace(core.DefaultRecommendationConfig())
	return s.save()
}

// Visible returns the records passing the current filter.
func (s *Selection) Visible(records []core.AnswerRecord) []core.AnswerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Apply(records)
}

// Best recommends among the visible records.
func (s *Selection) Best(records []core.AnswerRecord) (core.AnswerRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recommender.RecommendFiltered(records, s.filter.Config())
}

func (s *Selection) save() error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist(s.filter.Config(), s.recommender.Config()); err != nil {
		return fmt.Errorf("%w: preferences: %v", core.ErrStorageWrite, err)
	}
	return nil
}
