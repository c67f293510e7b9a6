package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"opbuilder/internal/logging"
)

const (
	// DefaultReportDir is the default location for check reports
	DefaultReportDir = "/var/lib/opbuilder/reports"
	// DefaultDirPermissions is the default permission for report directories
	DefaultDirPermissions = 0o750
	// DefaultFilePermissions is the default permission for report files
	DefaultFilePermissions = 0o600
)

// GetReportDir returns the report directory from environment or uses the provided default.
// It returns an absolute path when possible.
func GetReportDir(defaultDir string) string {
	if env := os.Getenv("OPBUILDER_REPORT_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
		return env
	}
	return defaultDir
}

// EnsureDirectory creates the directory if it doesn't exist.
// It uses DefaultDirPermissions (0o750) for the directory.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// AtomicWriteFile writes data to a file atomically by first writing to a temp file
// and then renaming it to the target path. The file is never partially written.
func AtomicWriteFile(path string, data []byte, perm os.FileMode, logger *logging.Logger) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warn("fsutil.cleanup.failed", "Failed to remove temp file", map[string]interface{}{
				"path":  tmpPath,
				"error": removeErr.Error(),
			})
		}
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// CloseWithError closes a resource and logs any error.
// Intended for defer statements where close errors should not be dropped silently.
func CloseWithError(closer func() error, logger *logging.Logger, resource string) {
	if err := closer(); err != nil {
		logger.Warn("fsutil.close.failed", fmt.Sprintf("Failed to close %s", resource), map[string]interface{}{
			"error": err.Error(),
		})
	}
}
