package core

// FilterConfig narrows an answer set. Every field is optional; the zero
// value of a field disables its predicate. The struct is flat, so a partial
// update replaces fields wholesale.
type FilterConfig struct {
	Providers []string `json:"providers" yaml:"providers"`
	MinLength int      `json:"min_length" yaml:"min_length"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
}

// RecommendationConfig drives the best-answer cascade.
type RecommendationConfig struct {
	PreferredProviders []string `json:"preferred_providers" yaml:"preferred_providers"`
	UseContentLength   bool     `json:"use_content_length" yaml:"use_content_length"`
	UseUserRatings     bool     `json:"use_user_ratings" yaml:"use_user_ratings"`
}

// DefaultRecommendationConfig ranks by user ratings only.
func DefaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{UseUserRatings: true}
}

// FilterUpdate is a partial FilterConfig. Nil fields are left untouched.
type FilterUpdate struct {
	Providers *[]string
	MinLength *int
	Keywords  *[]string
}

// RecommendationUpdate is a partial RecommendationConfig.
type RecommendationUpdate struct {
	PreferredProviders *[]string
	UseContentLength   *bool
	UseUserRatings     *bool
}
