package answer

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/quorum/internal/core"
)

// Filter narrows records by provider, minimum length and keywords, in that
// order. The input is not modified and the output keeps input order.
func Filter(records []core.AnswerRecord, cfg core.FilterConfig) []core.AnswerRecord {
	filtered := slices.Clone(records)

	if len(cfg.Providers) > 0 {
		allowed := toSet(cfg.Providers)
		filtered = slices.DeleteFunc(filtered, func(r core.AnswerRecord) bool {
			_, ok := allowed[r.Provider]
			return !ok
		})
	}

	if cfg.MinLength > 0 {
		filtered = slices.DeleteFunc(filtered, func(r core.AnswerRecord) bool {
			return utf8.RuneCountInString(r.Content) < cfg.MinLength
		})
	}

	if len(cfg.Keywords) > 0 {
		keywords := make([]string, len(cfg.Keywords))
		for i, k := range cfg.Keywords {
			keywords[i] = strings.ToLower(k)
		}
		filtered = slices.DeleteFunc(filtered, func(r core.AnswerRecord) bool {
			content := strings.ToLower(r.Content)
			return !slices.ContainsFunc(keywords, func(k string) bool {
				return strings.Contains(content, k)
			})
		})
	}

	return filtered
}

// ApplyFilterUpdate returns cfg with the non-nil fields of u replaced.
func ApplyFilterUpdate(cfg core.FilterConfig, u core.FilterUpdate) (core.FilterConfig, error) {
	if u.Providers != nil {
		cfg.Providers = slices.Clone(*u.Providers)
	}
	if u.MinLength != nil {
		cfg.MinLength = *u.MinLength
	}
	if u.Keywords != nil {
		cfg.Keywords = slices.Clone(*u.Keywords)
	}
	if err := ValidateFilterConfig(cfg); err != nil {
		return core.FilterConfig{}, err
	}
	return cfg, nil
}

func ValidateFilterConfig(cfg core.FilterConfig) error {
	if cfg.MinLength < 0 {
		return fmt.Errorf("%w: min length must not be negative, got %d", core.ErrValidation, cfg.MinLength)
	}
	return nil
}

// FilterEngine holds the current filter configuration.
type FilterEngine struct {
	cfg core.FilterConfig
}

func NewFilterEngine(cfg core.FilterConfig) (*FilterEngine, error) {
	if err := ValidateFilterConfig(cfg); err != nil {
		return nil, err
	}
	return &FilterEngine{cfg: cfg}, nil
}

func (e *FilterEngine) Config() core.FilterConfig {
	return e.cfg
}

// Update merges u into the current config. An invalid result leaves the
// config unchanged.
func (e *FilterEngine) Update(u core.FilterUpdate) error {
	cfg, err := ApplyFilterUpdate(e.cfg, u)
	if err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Replace swaps the whole config.
func (e *FilterEngine) Replace(cfg core.FilterConfig) error {
	if err := ValidateFilterConfig(cfg); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

func (e *FilterEngine) Apply(records []core.AnswerRecord) []core.AnswerRecord {
	return Filter(records, e.cfg)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
