package ingest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const lastRunFile = "last_run.json"

// LastRun summarizes the most recent import. LastRun is nil before the first one.
type LastRun struct {
	LastRun        *time.Time `json:"last_run"`
	NewJobs        int        `json:"new_jobs"`
	Total          int        `json:"total"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
}

func LastRunPath(dataDir string) string {
	return filepath.Join(dataDir, lastRunFile)
}

// ReadLastRun returns the zero LastRun when no import has run yet.
func ReadLastRun(dataDir string) (LastRun, error) {
	b, err := os.ReadFile(LastRunPath(dataDir))
	if errors.Is(err, os.ErrNotExist) {
		return LastRun{}, nil
	}
	if err != nil {
		return LastRun{}, err
	}
	var lr LastRun
	if err := json.Unmarshal(b, &lr); err != nil {
		return LastRun{}, err
	}
	return lr, nil
}

// WriteLastRun replaces the file with tmp + rename so readers never see a
// partial document.
func WriteLastRun(dataDir string, lr LastRun) error {
	b, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	path := LastRunPath(dataDir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
