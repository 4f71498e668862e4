package patternsource

import (
	"testing"

	"HammerSentinel/internal/model"
)

const quoteHTML = `<html><script>var chart = {"ticker":"AAPL",` +
	`"patterns":[{"kind":2,"strength":8.5,"status":1,"bounces":4,"x1":120,"y1":40,"x2":480,"y2":90},` +
	`{"kind":3,"strength":6,"status":1,"bounces":3,"x1":100,"y1":360,"x2":470,"y2":300},` +
	`{"kind":3,"strength":9,"status":0,"bounces":7,"x1":50,"y1":390,"x2":450,"y2":340},` +
	`{"kind":1,"strength":5,"status":1,"bounces":2,"x1":0,"y1":200,"x2":500,"y2":200}],` +
	`"patternsMinRange":150.25,"patternsMaxRange":260.75,"other":1};</script></html>`

func TestParse_Patterns(t *testing.T) {
	src := &FinvizSource{CanvasHeight: 400}
	set, err := src.parse("AAPL", quoteHTML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set == nil {
		t.Fatal("expected a pattern set")
	}
	if set.Bounds.MinPrice != 150.25 || set.Bounds.MaxPrice != 260.75 {
		t.Errorf("bounds: got %+v", set.Bounds)
	}
	if set.Bounds.CanvasHeight != 400 {
		t.Errorf("canvas height: got %d", set.Bounds.CanvasHeight)
	}
	if set.ChartBars != 500 {
		t.Errorf("chart bars: got %d", set.ChartBars)
	}

	// kind=1 (horizontal) is dropped; two trendlines plus one inactive remain.
	if len(set.Descriptors) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(set.Descriptors))
	}
	d := set.Descriptors[0]
	if d.Kind != model.KindUpper || d.Status != model.StatusActive || d.Strength != 8.5 {
		t.Errorf("upper descriptor: got %+v", d)
	}
	if d.Start.X != 120 || d.Start.Y != 40 || d.End.X != 480 || d.End.Y != 90 {
		t.Errorf("upper endpoints: got %+v", d)
	}
	if set.Descriptors[2].Status != model.StatusInactive {
		t.Errorf("status=0 should map to inactive: %+v", set.Descriptors[2])
	}
}

func TestParse_NoPatternData(t *testing.T) {
	src := &FinvizSource{CanvasHeight: 400}
	set, err := src.parse("ZZZZ", "<html><body>not found</body></html>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != nil {
		t.Errorf("expected nil set for a page without pattern data, got %+v", set)
	}
}

func TestMapKind(t *testing.T) {
	if k, ok := mapKind(2); !ok || k != model.KindUpper {
		t.Errorf("kind 2: got %v %v", k, ok)
	}
	if k, ok := mapKind(3); !ok || k != model.KindLower {
		t.Errorf("kind 3: got %v %v", k, ok)
	}
	for _, raw := range []int{0, 1, 4} {
		if _, ok := mapKind(raw); ok {
			t.Errorf("kind %d should not map to a line", raw)
		}
	}
}
