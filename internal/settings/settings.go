package settings

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// Settings are the scan knobs adjustable at runtime through the bot.
type Settings struct {
	TolerancePct  float64   `json:"tolerance_pct"`
	LookbackDays  int       `json:"lookback_days"`
	Screens       []string  `json:"screens"`
	AlertsEnabled bool      `json:"alerts_enabled"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store persists settings to a JSON state file with concurrency safety.
type Store struct {
	mu       sync.Mutex
	state    *Settings
	filePath string
}

// NewStore loads settings from disk, falling back to defaults for a fresh file.
func NewStore(filePath string, defaults Settings) (*Store, error) {
	state, err := loadState(filePath)
	if err != nil {
		return nil, err
	}
	if state.LookbackDays == 0 {
		d := defaults
		state = &d
	}

	s := &Store{state: state, filePath: filePath}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// SetTolerance updates the proximity tolerance percentage.
func (s *Store) SetTolerance(pct float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TolerancePct = pct
	s.persist()
}

// SetLookback updates the lookback window in trading days.
func (s *Store) SetLookback(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LookbackDays = days
	s.persist()
}

// ToggleAlerts flips scheduled-alert delivery and returns the new state.
func (s *Store) ToggleAlerts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AlertsEnabled = !s.state.AlertsEnabled
	s.persist()
	return s.state.AlertsEnabled
}

func (s *Store) persist() {
	if err := s.save(); err != nil {
		log.Printf("[ERROR] failed to save settings: %v", err)
	}
}

func (s *Store) save() error {
	s.state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

// loadState reads settings from a JSON file. Returns a zero state if the file
// doesn't exist.
func loadState(filePath string) (*Settings, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, err
	}
	var state Settings
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
