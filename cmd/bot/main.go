package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"HammerSentinel/internal/collector"
	"HammerSentinel/internal/config"
	"HammerSentinel/internal/notifier"
	"HammerSentinel/internal/patternsource"
	"HammerSentinel/internal/recorder"
	"HammerSentinel/internal/scan"
	"HammerSentinel/internal/scheduler"
	"HammerSentinel/internal/settings"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] HammerSentinel starting...")

	// .env is optional; real env vars win either way
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env file")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init price fetcher and pattern source
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	log.Printf("[INFO] price source: %s", fetcher.Name())

	source := patternsource.NewFinvizSource(cfg.Scan.CanvasHeightPx, cfg.Proxy)
	log.Printf("[INFO] pattern source: %s", source.Name())

	// Init scanner
	sc := scan.NewScanner(source, fetcher)

	// Init user settings store
	st, err := settings.NewStore(cfg.Settings.StateFile, settings.Settings{
		TolerancePct:  cfg.Scan.TolerancePct,
		LookbackDays:  cfg.Scan.LookbackDays,
		Screens:       cfg.Universe.Screens,
		AlertsEnabled: true, // hourly alerts are opt-out, via /alerts
	})
	if err != nil {
		log.Fatalf("[FATAL] init settings store: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sc, source, st, tn, rec, cfg)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] HammerSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] HammerSentinel stopped")
}
