package scan

import (
	"fmt"
	"log"
	"sync"

	"HammerSentinel/internal/candle"
	"HammerSentinel/internal/collector"
	"HammerSentinel/internal/model"
	"HammerSentinel/internal/patternsource"
	"HammerSentinel/internal/trendline"
)

// Options control one scan invocation. Zero values fall back to defaults.
type Options struct {
	LookbackDays int
	TolerancePct float64
	HistoryDays  int // daily bars fetched per symbol
	Workers      int
	Hammer       candle.Params
}

// DefaultOptions returns the stock scan configuration.
func DefaultOptions() Options {
	return Options{
		LookbackDays: 5,
		TolerancePct: 2.0,
		HistoryDays:  90,
		Workers:      4,
		Hammer:       candle.DefaultParams(),
	}
}

// Scanner correlates hammer candles with drawn trendlines per symbol.
type Scanner struct {
	Patterns patternsource.Source
	Prices   collector.Fetcher
}

// NewScanner creates a Scanner over the two collaborators.
func NewScanner(patterns patternsource.Source, prices collector.Fetcher) *Scanner {
	return &Scanner{Patterns: patterns, Prices: prices}
}

// ScanSymbol resolves both trendline kinds for one symbol, classifies the
// lookback window and returns its match records. The lower (support) line is
// checked first. A symbol without patterns or history just yields no records.
func (s *Scanner) ScanSymbol(symbol string, opts Options) ([]model.MatchRecord, error) {
	set, err := s.Patterns.FetchPatterns(symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch patterns %s: %w", symbol, err)
	}
	if set == nil || len(set.Descriptors) == 0 {
		return nil, nil
	}

	bars, err := s.Prices.FetchDailyBars(symbol, opts.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, nil
	}

	var records []model.MatchRecord
	for _, kind := range []model.LineKind{model.KindLower, model.KindUpper} {
		line, err := trendline.Resolve(set.Descriptors, set.Bounds, kind)
		if err != nil {
			return nil, fmt.Errorf("resolve %s %s: %w", symbol, kind, err)
		}
		if line == nil {
			continue // no active line of this kind, no signal
		}
		records = append(records, MatchWindow(symbol, line, bars, set.ChartBars,
			opts.LookbackDays, opts.TolerancePct, opts.Hammer)...)
	}
	return records, nil
}

// ScanAll fans out over symbols with a bounded worker pool and returns the
// combined record list ranked by recency then symbol. Per-symbol failures are
// logged and skipped; one bad ticker never aborts a scan run.
func (s *Scanner) ScanAll(symbols []string, opts Options) []model.MatchRecord {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		all []model.MatchRecord
	)
	sem := make(chan struct{}, workers)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			records, err := s.ScanSymbol(symbol, opts)
			if err != nil {
				log.Printf("[WARN] scan %s: %v", symbol, err)
				return
			}
			if len(records) == 0 {
				return
			}
			mu.Lock()
			all = append(all, records...)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	SortMatches(all)
	return all
}
