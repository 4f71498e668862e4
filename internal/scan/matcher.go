package scan

import (
	"math"
	"sort"

	"HammerSentinel/internal/candle"
	"HammerSentinel/internal/model"
	"HammerSentinel/internal/trendline"
)

// MatchWindow checks each hammer in the most recent lookbackDays bars against
// the resolved line and records its signed percentage distance. Records are
// emitted for non-matching hammers too; filtering to matched-only is the
// report layer's job. lastOrdinal is the chart ordinal of the newest bar.
// Output is newest date first. A nil line yields no records.
func MatchWindow(symbol string, line *trendline.Line, bars []model.OHLCV, lastOrdinal, lookbackDays int, tolerancePct float64, params candle.Params) []model.MatchRecord {
	if line == nil {
		return nil
	}

	var records []model.MatchRecord
	for offset := 0; offset < lookbackDays && offset < len(bars); offset++ {
		bar := bars[len(bars)-1-offset]
		chk := candle.Classify(bar, params)
		if !chk.IsHammer {
			continue
		}

		linePrice := line.PriceAt(float64(lastOrdinal - offset))
		if linePrice <= 0 {
			continue // extrapolated below the axis, distance is meaningless
		}

		ref := bar.Low
		if line.Kind == model.KindUpper {
			ref = bar.High
		}
		dist := (ref - linePrice) / linePrice * 100

		records = append(records, model.MatchRecord{
			Symbol:      symbol,
			Date:        bar.Time,
			DaysAgo:     offset,
			Kind:        line.Kind,
			LinePrice:   linePrice,
			RefPrice:    ref,
			DistancePct: dist,
			Matched:     math.Abs(dist) <= tolerancePct,
		})
	}
	return records
}

// SortMatches orders records for reporting: most recent first, then symbol
// lexicographic. Stable, so per-symbol kind order is preserved.
func SortMatches(records []model.MatchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DaysAgo != records[j].DaysAgo {
			return records[i].DaysAgo < records[j].DaysAgo
		}
		return records[i].Symbol < records[j].Symbol
	})
}
