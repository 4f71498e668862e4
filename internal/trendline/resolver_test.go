package trendline

import (
	"errors"
	"math"
	"testing"

	"HammerSentinel/internal/model"
)

var testBounds = model.AxisBounds{MaxPrice: 200, MinPrice: 100, CanvasHeight: 400}

func TestPriceFromY_Endpoints(t *testing.T) {
	if got := PriceFromY(0, testBounds); got != 200 {
		t.Errorf("y=0: expected max price 200, got %.4f", got)
	}
	if got := PriceFromY(400, testBounds); got != 100 {
		t.Errorf("y=400: expected min price 100, got %.4f", got)
	}
	if got := PriceFromY(200, testBounds); got != 150 {
		t.Errorf("y=200: expected midpoint 150, got %.4f", got)
	}
}

func TestPriceFromY_Monotonic(t *testing.T) {
	prev := math.Inf(1)
	for y := 0; y <= 400; y += 25 {
		p := PriceFromY(y, testBounds)
		if p >= prev {
			t.Fatalf("price not strictly decreasing: y=%d price=%.4f prev=%.4f", y, p, prev)
		}
		prev = p
	}
}

func TestResolve_PicksHighestStrength(t *testing.T) {
	descs := []model.PatternDescriptor{
		{Kind: model.KindUpper, Status: model.StatusActive, Strength: 5, Start: model.PatternEndpoint{X: 0, Y: 100}, End: model.PatternEndpoint{X: 400, Y: 60}},
		{Kind: model.KindUpper, Status: model.StatusActive, Strength: 9, Start: model.PatternEndpoint{X: 0, Y: 80}, End: model.PatternEndpoint{X: 400, Y: 40}},
	}
	for i := 0; i < 10; i++ {
		line, err := Resolve(descs, testBounds, model.KindUpper)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line == nil || line.Strength != 9 {
			t.Fatalf("expected strength-9 descriptor, got %+v", line)
		}
	}
}

func TestResolve_TieFirstWins(t *testing.T) {
	descs := []model.PatternDescriptor{
		{Kind: model.KindLower, Status: model.StatusActive, Strength: 7, Bounces: 3, Start: model.PatternEndpoint{X: 0, Y: 300}, End: model.PatternEndpoint{X: 400, Y: 260}},
		{Kind: model.KindLower, Status: model.StatusActive, Strength: 7, Bounces: 5, Start: model.PatternEndpoint{X: 0, Y: 320}, End: model.PatternEndpoint{X: 400, Y: 280}},
	}
	for i := 0; i < 10; i++ {
		line, err := Resolve(descs, testBounds, model.KindLower)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line == nil || line.Bounces != 3 {
			t.Fatalf("expected first descriptor on tie, got %+v", line)
		}
	}
}

func TestResolve_IgnoresInactiveAndOtherKind(t *testing.T) {
	descs := []model.PatternDescriptor{
		{Kind: model.KindUpper, Status: model.StatusInactive, Strength: 10},
		{Kind: model.KindLower, Status: model.StatusActive, Strength: 10},
	}
	line, err := Resolve(descs, testBounds, model.KindUpper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != nil {
		t.Fatalf("expected no line when only inactive/other-kind descriptors exist, got %+v", line)
	}
}

func TestResolve_BadBounds(t *testing.T) {
	descs := []model.PatternDescriptor{
		{Kind: model.KindUpper, Status: model.StatusActive, Strength: 1},
	}
	bad := model.AxisBounds{MaxPrice: 100, MinPrice: 100, CanvasHeight: 400}
	if _, err := Resolve(descs, bad, model.KindUpper); !errors.Is(err, ErrBadBounds) {
		t.Errorf("expected ErrBadBounds, got %v", err)
	}
}

func TestLine_PriceAtEndpointsExact(t *testing.T) {
	d := model.PatternDescriptor{
		Kind: model.KindUpper, Status: model.StatusActive, Strength: 4,
		Start: model.PatternEndpoint{X: 120, Y: 85},
		End:   model.PatternEndpoint{X: 470, Y: 31},
	}
	line, err := Resolve([]model.PatternDescriptor{d}, testBounds, model.KindUpper)
	if err != nil || line == nil {
		t.Fatalf("resolve failed: line=%v err=%v", line, err)
	}

	wantStart := PriceFromY(85, testBounds)
	wantEnd := PriceFromY(31, testBounds)
	if math.Abs(line.PriceAt(120)-wantStart) > 1e-9 {
		t.Errorf("PriceAt(start) = %.12f, want %.12f", line.PriceAt(120), wantStart)
	}
	if math.Abs(line.PriceAt(470)-wantEnd) > 1e-9 {
		t.Errorf("PriceAt(end) = %.12f, want %.12f", line.PriceAt(470), wantEnd)
	}
}

func TestLine_Extrapolates(t *testing.T) {
	// Rising support: price 100 at x=0, 110 at x=100.
	line := &Line{Kind: model.KindLower, X1: 0, X2: 100, P1: 100, P2: 110}
	if got := line.PriceAt(200); math.Abs(got-120) > 1e-9 {
		t.Errorf("extrapolation beyond end: got %.4f, want 120", got)
	}
	if got := line.PriceAt(-50); math.Abs(got-95) > 1e-9 {
		t.Errorf("extrapolation before start: got %.4f, want 95", got)
	}
}

func TestLine_VerticalDegenerate(t *testing.T) {
	line := &Line{X1: 50, X2: 50, P1: 123, P2: 150}
	if got := line.PriceAt(999); got != 123 {
		t.Errorf("coincident endpoints should return first price, got %.4f", got)
	}
}
