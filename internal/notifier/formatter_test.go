package notifier

import (
	"strings"
	"testing"
	"time"

	"HammerSentinel/internal/model"
)

func TestFormatScanReport_SectionsAndFiltering(t *testing.T) {
	records := []model.MatchRecord{
		{Symbol: "AAPL", Date: time.Now(), DaysAgo: 0, Kind: model.KindLower,
			LinePrice: 100, RefPrice: 98, DistancePct: -2.0, Matched: true},
		{Symbol: "MSFT", Date: time.Now(), DaysAgo: 2, Kind: model.KindUpper,
			LinePrice: 410, RefPrice: 405, DistancePct: -1.2, Matched: true},
		{Symbol: "GOOG", Date: time.Now(), DaysAgo: 1, Kind: model.KindLower,
			LinePrice: 150, RefPrice: 135, DistancePct: -10, Matched: false},
	}

	msg := FormatScanReport(records, 2.0, 5)

	if !strings.Contains(msg, "AAPL") || !strings.Contains(msg, "TODAY") {
		t.Errorf("support match missing:\n%s", msg)
	}
	if !strings.Contains(msg, "MSFT") || !strings.Contains(msg, "2d ago") {
		t.Errorf("resistance match missing:\n%s", msg)
	}
	if strings.Contains(msg, "GOOG") {
		t.Errorf("unmatched record must not appear in the report:\n%s", msg)
	}
	// Support section comes first.
	if strings.Index(msg, "support") > strings.Index(msg, "resistance") {
		t.Errorf("support section should precede resistance:\n%s", msg)
	}
}

func TestFormatScanReport_Empty(t *testing.T) {
	msg := FormatScanReport(nil, 2.0, 5)
	if !strings.Contains(msg, "no signals found") {
		t.Errorf("empty report should say so:\n%s", msg)
	}
}
