package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"HammerSentinel/internal/candle"
	"HammerSentinel/internal/config"
	"HammerSentinel/internal/notifier"
	"HammerSentinel/internal/patternsource"
	"HammerSentinel/internal/recorder"
	"HammerSentinel/internal/scan"
	"HammerSentinel/internal/settings"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks and user commands.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scan.Scanner
	Source   patternsource.Source
	Settings *settings.Store
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Cfg      *config.Config
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scan.Scanner, src patternsource.Source, st *settings.Store, tn *notifier.TelegramNotifier, rec recorder.Recorder, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  sc,
		Source:   src,
		Settings: st,
		Notifier: tn,
		Recorder: rec,
		Cfg:      cfg,
		Ctx:      ctx,
	}
}

// RegisterAll registers the hourly scan and the daily report tasks.
func (s *Scheduler) RegisterAll(scanCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.hourlyScan); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.dailyReport); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes a full scan immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	report := s.runScan("MANUAL", 0)
	s.trySend(report)
}

func (s *Scheduler) hourlyScan() {
	log.Println("[INFO] running hourly scan")
	st := s.Settings.Get()
	report := s.runScan("HOURLY", 0)
	// Hourly runs only alert when enabled; the daily report always goes out.
	if st.AlertsEnabled {
		s.trySend(report)
	}
}

func (s *Scheduler) dailyReport() {
	log.Println("[INFO] running daily report")
	report := s.runScan("DAILY", 0)
	s.trySend(report)
}

// runScan resolves the universe, scans it, records the run, and returns the
// formatted report. lookbackOverride > 0 narrows the window for this run only.
func (s *Scheduler) runScan(trigger string, lookbackOverride int) string {
	start := time.Now()
	st := s.Settings.Get()

	opts := scan.Options{
		LookbackDays: st.LookbackDays,
		TolerancePct: st.TolerancePct,
		HistoryDays:  s.Cfg.Scan.HistoryDays,
		Workers:      s.Cfg.Scan.Workers,
		Hammer:       s.hammerParams(),
	}
	if lookbackOverride > 0 {
		opts.LookbackDays = lookbackOverride
	}

	symbols := s.Cfg.StaticSymbols()
	if symbols == nil {
		var err error
		symbols, err = s.Source.Universe(st.Screens)
		if err != nil {
			log.Printf("[ERROR] resolve universe: %v", err)
			return fmt.Sprintf("❌ screener fetch failed: %v", err)
		}
	}
	if len(symbols) == 0 {
		log.Println("[WARN] empty scan universe")
		return "⚠️ no symbols to scan"
	}
	log.Printf("[INFO] scanning %d symbols (trigger=%s)", len(symbols), trigger)

	records := s.Scanner.ScanAll(symbols, opts)

	if err := s.Recorder.RecordScan(&recorder.ScanRun{
		Trigger:      trigger,
		Symbols:      len(symbols),
		TolerancePct: opts.TolerancePct,
		LookbackDays: opts.LookbackDays,
		Duration:     time.Since(start),
		Records:      records,
	}); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}

	return notifier.FormatScanReport(records, opts.TolerancePct, opts.LookbackDays)
}

func (s *Scheduler) hammerParams() candle.Params {
	return candle.Params{
		BodyRatio:   s.Cfg.Scan.BodyRatio,
		WickRatio:   s.Cfg.Scan.WickRatio,
		MinRangePct: s.Cfg.Scan.MinRangePct,
		MinBodyPct:  s.Cfg.Scan.MinBodyPct,
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}

	switch fields[0] {
	case "/scan":
		return s.runScan("MANUAL", 0)
	case "/quick":
		// Today's bar only
		return s.runScan("MANUAL", 1)
	case "/price":
		if len(fields) < 2 {
			return "usage: /price <symbol>, e.g. /price AAPL"
		}
		symbol := strings.ToUpper(fields[1])
		price, err := s.Scanner.Prices.FetchCurrentPrice(symbol)
		if err != nil {
			log.Printf("[ERROR] fetch price %s: %v", symbol, err)
			return fmt.Sprintf("❌ price lookup failed for %s", symbol)
		}
		return fmt.Sprintf("<b>%s</b>: $%.2f", symbol, price)
	case "/settings":
		return notifier.FormatSettings(s.Settings.Get())
	case "/tolerance":
		if len(fields) < 2 {
			return "usage: /tolerance <pct>, e.g. /tolerance 1.5"
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || v <= 0 || v > 20 {
			return "tolerance must be a number between 0 and 20"
		}
		s.Settings.SetTolerance(v)
		return fmt.Sprintf("✅ tolerance set to %.1f%%", v)
	case "/lookback":
		if len(fields) < 2 {
			return "usage: /lookback <days>, e.g. /lookback 3"
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > 30 {
			return "lookback must be an integer between 1 and 30"
		}
		s.Settings.SetLookback(n)
		return fmt.Sprintf("✅ lookback set to %d days", n)
	case "/alerts":
		if s.Settings.ToggleAlerts() {
			return "🔔 hourly alerts enabled"
		}
		return "🔕 hourly alerts disabled"
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if text == "" {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
