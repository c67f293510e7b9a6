package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"opbuilder/internal/fsutil"
	"opbuilder/internal/logging"
)

// Store writes and reads reports in a directory
type Store struct {
	dir    string
	logger *logging.Logger
}

// NewStore creates a report store rooted at dir
func NewStore(dir string, logger *logging.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the store directory
func (s *Store) Dir() string {
	return s.dir
}

// Save writes r atomically and returns its path
func (s *Store) Save(r Report) (string, error) {
	if err := fsutil.EnsureDirectory(s.dir); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(s.dir, r.FileName())
	if err := fsutil.AtomicWriteFile(path, data, fsutil.DefaultFilePermissions, s.logger); err != nil {
		return "", err
	}

	s.logger.Info("report.saved", "Check report written", map[string]interface{}{
		"path":       path,
		"id":         r.ID,
		"compatible": r.Compatible,
	})

	return path, nil
}

// Load reads a report written by Save
func Load(path string) (Report, error) {
	var r Report

	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- caller-selected report file
	if err != nil {
		return r, fmt.Errorf("failed to read report: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return r, nil
}
