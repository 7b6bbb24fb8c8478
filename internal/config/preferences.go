package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sandevgo/quorum/internal/core"
	"gopkg.in/yaml.v3"
)

// Preferences is the user's current answer filter and recommendation policy.
type Preferences struct {
	Filter         core.FilterConfig         `yaml:"filter"`
	Recommendation core.RecommendationConfig `yaml:"recommendation"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Recommendation: core.DefaultRecommendationConfig(),
	}
}

type PreferencesFile struct {
	path string
	mu   sync.RWMutex
}

func NewPreferencesFile(path string) *PreferencesFile {
	return &PreferencesFile{path: path}
}

// Load reads preferences. A missing file yields the defaults.
func (p *PreferencesFile) Load() (Preferences, error) {
	p.mu.RLock()
	data, err := os.ReadFile(p.path)
	p.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPreferences(), nil
		}
		return Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := DefaultPreferences()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if prefs.Filter.MinLength < 0 {
		return Preferences{}, fmt.Errorf("%w: filter.min_length must not be negative", core.ErrValidation)
	}
	return prefs, nil
}

func (p *PreferencesFile) Save(prefs Preferences) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
