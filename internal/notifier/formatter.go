package notifier

import (
	"fmt"
	"strings"
	"time"

	"HammerSentinel/internal/model"
	"HammerSentinel/internal/settings"
)

// FormatScanReport renders the ranked match list as a Telegram message. Only
// matched records are shown; the support (blue) section comes first because
// a hammer piercing support is the signal this bot exists for.
func FormatScanReport(records []model.MatchRecord, tolerancePct float64, lookbackDays int) string {
	lower := filterMatched(records, model.KindLower)
	upper := filterMatched(records, model.KindUpper)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Scan Results</b> | %s\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Tolerance: %.1f%% | Lookback: %d days\n\n", tolerancePct, lookbackDays))

	b.WriteString(fmt.Sprintf("🔵 <b>Hammers on support</b> (%d)\n", len(lower)))
	writeSection(&b, lower, "Low")

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("🔴 <b>Hammers on resistance</b> (%d)\n", len(upper)))
	writeSection(&b, upper, "High")

	return b.String()
}

func writeSection(b *strings.Builder, records []model.MatchRecord, refLabel string) {
	if len(records) == 0 {
		b.WriteString("no signals found\n")
		return
	}
	for _, r := range records {
		b.WriteString(fmt.Sprintf("• <b>%s</b> (%s)\n", r.Symbol, daysLabel(r.DaysAgo)))
		b.WriteString(fmt.Sprintf("  Line: $%.2f | %s: $%.2f (%+.1f%%)\n",
			r.LinePrice, refLabel, r.RefPrice, r.DistancePct))
	}
}

func daysLabel(daysAgo int) string {
	if daysAgo == 0 {
		return "TODAY"
	}
	return fmt.Sprintf("%dd ago", daysAgo)
}

func filterMatched(records []model.MatchRecord, kind model.LineKind) []model.MatchRecord {
	var out []model.MatchRecord
	for _, r := range records {
		if r.Matched && r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// FormatSettings renders the current scan settings for display.
func FormatSettings(s settings.Settings) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Scan Settings</b>\n\n")
	b.WriteString(fmt.Sprintf("Tolerance: %.1f%%\n", s.TolerancePct))
	b.WriteString(fmt.Sprintf("Lookback: %d days\n", s.LookbackDays))
	b.WriteString(fmt.Sprintf("Screens: %s\n", strings.Join(s.Screens, ", ")))
	alerts := "OFF"
	if s.AlertsEnabled {
		alerts = "ON"
	}
	b.WriteString(fmt.Sprintf("Alerts: %s\n", alerts))
	b.WriteString(fmt.Sprintf("Updated: %s\n", s.UpdatedAt.Format("2006-01-02 15:04")))
	return b.String()
}

// FormatHelp lists the commands the bot understands.
func FormatHelp() string {
	return "🔨 <b>HammerSentinel</b>\n\n" +
		"I scan for hammer candlesticks touching drawn trendlines.\n\n" +
		"/scan - run a full scan now\n" +
		"/quick - scan today only\n" +
		"/price &lt;symbol&gt; - current price lookup\n" +
		"/settings - show current settings\n" +
		"/tolerance &lt;pct&gt; - set proximity tolerance\n" +
		"/lookback &lt;days&gt; - set lookback window\n" +
		"/alerts - toggle scheduled alerts\n" +
		"/help - this message"
}
