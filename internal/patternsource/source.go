package patternsource

import "HammerSentinel/internal/model"

// Source supplies trendline pattern descriptors for a symbol, plus the
// universe of symbols matching the configured chart-pattern screens.
type Source interface {
	// FetchPatterns returns the descriptor set for one symbol, or nil when
	// the source has no drawn patterns for it.
	FetchPatterns(symbol string) (*model.PatternSet, error)
	// Universe returns the distinct symbols matching the given screens.
	Universe(screens []string) ([]string, error)
	Name() string
}
