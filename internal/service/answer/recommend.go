package answer

import (
	"slices"
	"unicode/utf8"

	"github.com/sandevgo/quorum/internal/core"
)

// Recommend picks one best record with an ordered cascade:
//
//  1. narrow to preferred providers, unless that leaves nothing;
//  2. with user ratings on, the highest-rated candidate wins if any is rated;
//  3. with content length on, the longest candidate wins;
//  4. otherwise the first candidate.
//
// Ties resolve to the earliest record in input order. ok is false only for
// an empty input.
func Recommend(records []core.AnswerRecord, cfg core.RecommendationConfig, ratings core.RatingLookup) (best core.AnswerRecord, ok bool) {
	if len(records) == 0 {
		return core.AnswerRecord{}, false
	}

	candidates := records
	if len(cfg.PreferredProviders) > 0 {
		preferred := toSet(cfg.PreferredProviders)
		narrowed := slices.DeleteFunc(slices.Clone(records), func(r core.AnswerRecord) bool {
			_, ok := preferred[r.Provider]
			return !ok
		})
		if len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	if cfg.UseUserRatings && ratings != nil {
		if winner, found := highestRated(candidates, ratings); found {
			return winner, true
		}
	}

	if cfg.UseContentLength {
		return longest(candidates), true
	}

	return candidates[0], true
}

func highestRated(candidates []core.AnswerRecord, ratings core.RatingLookup) (core.AnswerRecord, bool) {
	var (
		best      core.AnswerRecord
		bestScore int
		found     bool
	)
	for _, c := range candidates {
		score, rated := ratings.Score(c.SessionID, c.ID)
		if !rated {
			continue
		}
		// Strict comparison keeps the first occurrence on ties.
		if !found || score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}

func longest(candidates []core.AnswerRecord) core.AnswerRecord {
	best := candidates[0]
	bestLen := utf8.RuneCountInString(best.Content)
	for _, c := range candidates[1:] {
		if l := utf8.RuneCountInString(c.Content); l > bestLen {
			best, bestLen = c, l
		}
	}
	return best
}

// ApplyRecommendationUpdate returns cfg with the non-nil fields of u replaced.
func ApplyRecommendationUpdate(cfg core.RecommendationConfig, u core.RecommendationUpdate) core.RecommendationConfig {
	if u.PreferredProviders != nil {
		cfg.PreferredProviders = slices.Clone(*u.PreferredProviders)
	}
	if u.UseContentLength != nil {
		cfg.UseContentLength = *u.UseContentLength
	}
	if u.UseUserRatings != nil {
		cfg.UseUserRatings = *u.UseUserRatings
	}
	return cfg
}

// Recommender holds the current recommendation policy and the rating source
// it consults.
type Recommender struct {
	cfg     core.RecommendationConfig
	ratings core.RatingLookup
}

func NewRecommender(cfg core.RecommendationConfig, ratings core.RatingLookup) *Recommender {
	return &Recommender{cfg: cfg, ratings: ratings}
}

func (r *Recommender) Config() core.RecommendationConfig {
	return r.cfg
}

func (r *Recommender) Update(u core.RecommendationUpdate) {
	r.cfg = ApplyRecommendationUpdate(r.cfg, u)
}

func (r *Recommender) Replace(cfg core.RecommendationConfig) {
	r.cfg = cfg
}

func (r *Recommender) Recommend(records []core.AnswerRecord) (core.AnswerRecord, bool) {
	return Recommend(records, r.cfg, r.ratings)
}

// RecommendFiltered recommends among the records that pass filter.
func (r *Recommender) RecommendFiltered(records []core.AnswerRecord, filter core.FilterConfig) (core.AnswerRecord, bool) {
	return Recommend(Filter(records, filter), r.cfg, r.ratings)
}
