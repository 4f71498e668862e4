package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			trigger_type  TEXT,
			symbols       INTEGER,
			records       INTEGER,
			matches       INTEGER,
			tolerance_pct REAL,
			lookback_days INTEGER,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS match_records (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			bar_date     TEXT NOT NULL,
			days_ago     INTEGER,
			kind         TEXT,
			line_price   REAL,
			ref_price    REAL,
			distance_pct REAL,
			matched      INTEGER,
			FOREIGN KEY (run_id) REFERENCES scan_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run ON match_records(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_symbol ON match_records(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(run *ScanRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := 0
	for _, rec := range run.Records {
		if rec.Matched {
			matched++
		}
	}

	res, err := r.db.Exec(`INSERT INTO scan_runs
		(timestamp, trigger_type, symbols, records, matches, tolerance_pct, lookback_days, duration_ms)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), run.Trigger, run.Symbols, len(run.Records), matched,
		run.TolerancePct, run.LookbackDays, run.Duration.Milliseconds(),
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, rec := range run.Records {
		if _, err := r.db.Exec(`INSERT INTO match_records
			(run_id, symbol, bar_date, days_ago, kind, line_price, ref_price, distance_pct, matched)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID, rec.Symbol, rec.Date.Format("2006-01-02"), rec.DaysAgo, string(rec.Kind),
			rec.LinePrice, rec.RefPrice, rec.DistancePct, rec.Matched,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
