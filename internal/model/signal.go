package model

import "time"

// HammerCheck is the classification result for a single bar. The measurements
// are kept for diagnostics; downstream code only needs IsHammer.
type HammerCheck struct {
	IsHammer  bool
	Range     float64 // high - low
	Body      float64 // |close - open|
	UpperWick float64 // high - max(open, close)
	LowerWick float64 // min(open, close) - low
}

// MatchRecord pairs one hammer bar with the trendline price on the same date.
type MatchRecord struct {
	Symbol      string
	Date        time.Time
	DaysAgo     int // 0 = most recent available trading day
	Kind        LineKind
	LinePrice   float64
	RefPrice    float64 // bar low for a LOWER line, bar high for an UPPER line
	DistancePct float64 // signed, percent of line price
	Matched     bool    // |DistancePct| within tolerance
}
