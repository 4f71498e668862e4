package candle

import (
	"math"

	"HammerSentinel/internal/model"
)

// Params are the geometric thresholds for hammer classification.
type Params struct {
	BodyRatio   float64 // max body size as a fraction of total range
	WickRatio   float64 // min lower wick size as a multiple of body
	MinRangePct float64 // min total range as a percent of close
	MinBodyPct  float64 // min body size as a percent of close
}

// DefaultParams returns the thresholds tuned against real screener output.
func DefaultParams() Params {
	return Params{
		BodyRatio:   0.35,
		WickRatio:   1.5,
		MinRangePct: 2.0,
		MinBodyPct:  0.5,
	}
}

// Classify evaluates one bar against the hammer rule set. All five rules are
// conjunctive. Degenerate bars (high == low, non-positive close, zero body)
// classify as non-hammer, never an error.
func Classify(bar model.OHLCV, p Params) model.HammerCheck {
	chk := model.HammerCheck{
		Range:     bar.High - bar.Low,
		Body:      math.Abs(bar.Close - bar.Open),
		UpperWick: bar.High - math.Max(bar.Open, bar.Close),
		LowerWick: math.Min(bar.Open, bar.Close) - bar.Low,
	}
	if chk.Range <= 0 || bar.Close <= 0 {
		return chk
	}

	// Filters tiny candles, e.g. a $0.67 range on a $42 stock.
	rangePct := chk.Range / bar.Close * 100
	if rangePct < p.MinRangePct {
		return chk
	}

	// A doji fails here; it also keeps the wick/body ratios below meaningful.
	bodyPct := chk.Body / bar.Close * 100
	if bodyPct < p.MinBodyPct {
		return chk
	}

	if chk.Body > chk.Range*p.BodyRatio {
		return chk
	}
	if chk.LowerWick < chk.Body*p.WickRatio {
		return chk
	}
	if chk.UpperWick > chk.Body*0.5 {
		return chk
	}

	chk.IsHammer = true
	return chk
}
