package collector

import "HammerSentinel/internal/model"

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchDailyBars returns up to `days` daily bars, oldest first.
	FetchDailyBars(symbol string, days int) ([]model.OHLCV, error)
	FetchCurrentPrice(symbol string) (float64, error)
	Name() string
}
