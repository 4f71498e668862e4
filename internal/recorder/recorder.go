package recorder

import (
	"time"

	"HammerSentinel/internal/model"
)

// ScanRun holds the summary and output of one scan invocation.
type ScanRun struct {
	Trigger      string // "HOURLY", "DAILY" or "MANUAL"
	Symbols      int    // symbols scanned
	TolerancePct float64
	LookbackDays int
	Duration     time.Duration
	Records      []model.MatchRecord
}

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordScan(run *ScanRun) error
	Close() error
}
