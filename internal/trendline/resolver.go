package trendline

import (
	"errors"

	"HammerSentinel/internal/model"
)

// ErrBadBounds reports axis bounds that cannot map pixels to prices.
var ErrBadBounds = errors.New("axis bounds: max_price must be greater than min_price")

// PriceFromY converts a chart pixel y-offset to an absolute price. Y grows
// downward, so the converted price is strictly decreasing in y.
func PriceFromY(y int, b model.AxisBounds) float64 {
	return b.MaxPrice - float64(y)/float64(b.CanvasHeight)*(b.MaxPrice-b.MinPrice)
}

// Line is a resolved trendline: two (ordinal, price) endpoints in chart time.
// It behaves as an infinite ray, so PriceAt extrapolates beyond the endpoints.
type Line struct {
	Kind     model.LineKind
	X1, X2   float64
	P1, P2   float64
	Strength float64
	Bounces  int
}

// PriceAt returns the line price at the given bar ordinal.
func (l *Line) PriceAt(x float64) float64 {
	if l.X2 == l.X1 {
		return l.P1
	}
	slope := (l.P2 - l.P1) / (l.X2 - l.X1)
	return l.P1 + slope*(x-l.X1)
}

// Resolve picks the authoritative line of the requested kind: ACTIVE
// descriptors only, highest strength wins, first encountered wins an exact
// tie. Returns (nil, nil) when no ACTIVE descriptor of that kind exists;
// callers treat that as "no signal", not an error.
func Resolve(descs []model.PatternDescriptor, bounds model.AxisBounds, kind model.LineKind) (*Line, error) {
	if bounds.MaxPrice <= bounds.MinPrice || bounds.CanvasHeight <= 0 {
		return nil, ErrBadBounds
	}

	var best *model.PatternDescriptor
	for i := range descs {
		d := &descs[i]
		if d.Status != model.StatusActive || d.Kind != kind {
			continue
		}
		if best == nil || d.Strength > best.Strength {
			best = d
		}
	}
	if best == nil {
		return nil, nil
	}

	return &Line{
		Kind:     kind,
		X1:       float64(best.Start.X),
		X2:       float64(best.End.X),
		P1:       PriceFromY(best.Start.Y, bounds),
		P2:       PriceFromY(best.End.Y, bounds),
		Strength: best.Strength,
		Bounces:  best.Bounces,
	}, nil
}
