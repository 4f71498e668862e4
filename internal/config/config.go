package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Watchlists are the predefined symbol groups selectable by name.
var Watchlists = map[string][]string{
	"tech":       {"AAPL", "MSFT", "GOOGL", "META", "AMZN", "NVDA", "AMD", "TSLA"},
	"finance":    {"JPM", "BAC", "GS", "MS", "C", "WFC", "BLK", "SCHW"},
	"healthcare": {"JNJ", "PFE", "UNH", "MRK", "ABBV", "TMO", "ABT", "LLY"},
	"sp500_top":  {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "BRK-B", "JPM", "V", "JNJ"},
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Universe struct {
		Symbols   []string `yaml:"symbols"`   // explicit ticker list
		Watchlist string   `yaml:"watchlist"` // named watchlist, used when symbols is empty
		Screens   []string `yaml:"screens"`   // chart-pattern screens, used when both above are empty
	} `yaml:"universe"`
	Scan struct {
		BodyRatio      float64 `yaml:"body_ratio"`
		WickRatio      float64 `yaml:"wick_ratio"`
		MinRangePct    float64 `yaml:"min_range_pct"`
		MinBodyPct     float64 `yaml:"min_body_pct"`
		TolerancePct   float64 `yaml:"tolerance_pct"`
		LookbackDays   int     `yaml:"lookback_days"`
		CanvasHeightPx int     `yaml:"canvas_height_px"`
		HistoryDays    int     `yaml:"history_days"`
		Workers        int     `yaml:"workers"`
	} `yaml:"scan"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Settings struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"settings"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCAN_TOLERANCE_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scan.TolerancePct = f
		}
	}
	if v := os.Getenv("SCAN_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.LookbackDays = n
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Scan.BodyRatio == 0 {
		cfg.Scan.BodyRatio = 0.35
	}
	if cfg.Scan.WickRatio == 0 {
		cfg.Scan.WickRatio = 1.5
	}
	if cfg.Scan.MinRangePct == 0 {
		cfg.Scan.MinRangePct = 2.0
	}
	if cfg.Scan.MinBodyPct == 0 {
		cfg.Scan.MinBodyPct = 0.5
	}
	if cfg.Scan.TolerancePct == 0 {
		cfg.Scan.TolerancePct = 2.0
	}
	if cfg.Scan.LookbackDays == 0 {
		cfg.Scan.LookbackDays = 5
	}
	if cfg.Scan.CanvasHeightPx == 0 {
		cfg.Scan.CanvasHeightPx = 400
	}
	if cfg.Scan.HistoryDays == 0 {
		cfg.Scan.HistoryDays = 90
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if len(cfg.Universe.Screens) == 0 {
		cfg.Universe.Screens = []string{"wedgeup", "wedgedown", "channelup", "channeldown", "horizontal"}
	}
	if cfg.Schedule.ScanCron == "" {
		// Hourly during US market hours, Mon-Fri (UTC).
		cfg.Schedule.ScanCron = "0 0 14-21 * * 1-5"
	}
	if cfg.Schedule.ReportCron == "" {
		// Daily report after market close.
		cfg.Schedule.ReportCron = "0 30 21 * * 1-5"
	}
	if cfg.Settings.StateFile == "" {
		cfg.Settings.StateFile = "data/settings.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/hammer_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and coherent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Scan.CanvasHeightPx <= 0 {
		return fmt.Errorf("scan.canvas_height_px must be positive")
	}
	if c.Scan.TolerancePct <= 0 {
		return fmt.Errorf("scan.tolerance_pct must be positive")
	}
	if c.Scan.LookbackDays <= 0 {
		return fmt.Errorf("scan.lookback_days must be positive")
	}
	if c.Universe.Watchlist != "" {
		if _, ok := Watchlists[c.Universe.Watchlist]; !ok {
			return fmt.Errorf("unknown watchlist %q", c.Universe.Watchlist)
		}
	}
	return nil
}

// StaticSymbols returns the configured fixed symbol universe, or nil when the
// universe should come from the pattern source's screens.
func (c *Config) StaticSymbols() []string {
	if len(c.Universe.Symbols) > 0 {
		return c.Universe.Symbols
	}
	if c.Universe.Watchlist != "" {
		return Watchlists[c.Universe.Watchlist]
	}
	return nil
}
