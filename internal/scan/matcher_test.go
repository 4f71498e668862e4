package scan

import (
	"math"
	"testing"
	"time"

	"HammerSentinel/internal/candle"
	"HammerSentinel/internal/model"
	"HammerSentinel/internal/trendline"
)

func day(daysAgo int) time.Time {
	return time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
}

// hammerBar builds a bar that classifies as a hammer under default params,
// with the given low. The shape is proportional so it qualifies at any price.
func hammerBar(low float64, daysAgo int) model.OHLCV {
	return model.OHLCV{
		Time:  day(daysAgo),
		Open:  low * 1.026,
		High:  low * 1.028,
		Low:   low,
		Close: low * 1.020,
	}
}

// flatBar is an ordinary bar that never classifies as a hammer.
func flatBar(daysAgo int) model.OHLCV {
	return model.OHLCV{Time: day(daysAgo), Open: 100, High: 100.4, Low: 99.8, Close: 100.1}
}

func flatLine(kind model.LineKind, price float64) *trendline.Line {
	return &trendline.Line{Kind: kind, X1: 0, X2: 500, P1: price, P2: price}
}

func TestMatchWindow_SignConvention(t *testing.T) {
	bars := []model.OHLCV{flatBar(2), flatBar(1), hammerBar(98, 0)}
	line := flatLine(model.KindLower, 100)

	records := MatchWindow("AAPL", line, bars, 500, 5, 2.0, candle.DefaultParams())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if math.Abs(r.DistancePct-(-2.0)) > 1e-9 {
		t.Errorf("distance = %.6f, want -2.0", r.DistancePct)
	}
	if r.RefPrice != 98 {
		t.Errorf("support line should reference the bar low, got %.2f", r.RefPrice)
	}
	if !r.Matched {
		t.Error("|−2.0| <= 2.0 should match")
	}

	tight := MatchWindow("AAPL", line, bars, 500, 5, 1.0, candle.DefaultParams())
	if len(tight) != 1 || tight[0].Matched {
		t.Errorf("at tolerance 1.0 the record must be emitted but unmatched: %+v", tight)
	}
}

func TestMatchWindow_UpperLineUsesHigh(t *testing.T) {
	bars := []model.OHLCV{hammerBar(98, 0)}
	line := flatLine(model.KindUpper, 102)

	records := MatchWindow("AAPL", line, bars, 500, 5, 2.0, candle.DefaultParams())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	high := 98 * 1.028
	if math.Abs(r.RefPrice-high) > 1e-9 {
		t.Errorf("resistance line should reference the bar high, got %.4f", r.RefPrice)
	}
	want := (high - 102) / 102 * 100
	if math.Abs(r.DistancePct-want) > 1e-9 {
		t.Errorf("distance = %.6f, want %.6f", r.DistancePct, want)
	}
}

func TestMatchWindow_NilLine(t *testing.T) {
	bars := []model.OHLCV{hammerBar(98, 0)}
	if records := MatchWindow("AAPL", nil, bars, 500, 5, 2.0, candle.DefaultParams()); records != nil {
		t.Errorf("nil line must yield no records, got %+v", records)
	}
}

func TestMatchWindow_EmitsUnmatched(t *testing.T) {
	bars := []model.OHLCV{hammerBar(90, 0)}
	records := MatchWindow("AAPL", flatLine(model.KindLower, 100), bars, 500, 5, 2.0, candle.DefaultParams())
	if len(records) != 1 {
		t.Fatalf("expected the far-away hammer to still be recorded, got %d records", len(records))
	}
	if records[0].Matched {
		t.Error("a -10%% hammer must not be matched at 2%% tolerance")
	}
}

func TestMatchWindow_ShortHistory(t *testing.T) {
	bars := []model.OHLCV{hammerBar(98, 1), hammerBar(98, 0)}
	records := MatchWindow("AAPL", flatLine(model.KindLower, 100), bars, 500, 5, 2.0, candle.DefaultParams())
	if len(records) != 2 {
		t.Fatalf("expected matcher to use the 2 available bars, got %d records", len(records))
	}
	if records[0].DaysAgo != 0 || records[1].DaysAgo != 1 {
		t.Errorf("records must be newest first: %+v", records)
	}
}

func TestMatchWindow_SlopedLineOrdinalMapping(t *testing.T) {
	// Line rising $1 per bar: price 400 at ordinal 0.
	line := &trendline.Line{Kind: model.KindLower, X1: 0, X2: 100, P1: 400, P2: 500}
	bars := []model.OHLCV{hammerBar(496, 2), flatBar(1), flatBar(0)}

	records := MatchWindow("AAPL", line, bars, 500, 5, 2.0, candle.DefaultParams())
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.DaysAgo != 2 {
		t.Errorf("days ago = %d, want 2", r.DaysAgo)
	}
	// Two bars back the extrapolated line sits at 898.
	if math.Abs(r.LinePrice-898) > 1e-9 {
		t.Errorf("line price = %.6f, want 898", r.LinePrice)
	}
}

func TestMatchWindow_SkipsNonPositiveLinePrice(t *testing.T) {
	// Line falling $1 per bar crosses zero at ordinal 498, so the three most
	// recent bars see a line at 0, -1 and -2.
	line := &trendline.Line{Kind: model.KindLower, X1: 0, X2: 500, P1: 498, P2: -2}
	bars := []model.OHLCV{
		hammerBar(2, 4), hammerBar(2, 3), hammerBar(2, 2), hammerBar(2, 1), hammerBar(2, 0),
	}

	records := MatchWindow("AAPL", line, bars, 500, 5, 2.0, candle.DefaultParams())
	if len(records) != 2 {
		t.Fatalf("expected only the bars with a positive line price, got %d records", len(records))
	}
	if records[0].DaysAgo != 3 || records[1].DaysAgo != 4 {
		t.Errorf("days ago = %d, %d, want 3, 4", records[0].DaysAgo, records[1].DaysAgo)
	}
	if math.Abs(records[0].LinePrice-1) > 1e-9 || math.Abs(records[1].LinePrice-2) > 1e-9 {
		t.Errorf("line prices = %.6f, %.6f, want 1, 2", records[0].LinePrice, records[1].LinePrice)
	}
}

func TestSortMatches_RecencyThenSymbol(t *testing.T) {
	records := []model.MatchRecord{
		{Symbol: "B", DaysAgo: 3},
		{Symbol: "B", DaysAgo: 0},
		{Symbol: "A", DaysAgo: 1},
		{Symbol: "A", DaysAgo: 0},
		{Symbol: "B", DaysAgo: 1},
	}
	SortMatches(records)

	want := []struct {
		sym  string
		days int
	}{
		{"A", 0}, {"B", 0}, {"A", 1}, {"B", 1}, {"B", 3},
	}
	for i, w := range want {
		if records[i].Symbol != w.sym || records[i].DaysAgo != w.days {
			t.Fatalf("position %d: got %s/%d, want %s/%d",
				i, records[i].Symbol, records[i].DaysAgo, w.sym, w.days)
		}
	}
}
