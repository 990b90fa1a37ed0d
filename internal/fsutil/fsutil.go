// Package fsutil holds small filesystem helpers shared by the logfile and
// archive packages.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirPermissions is used for created data directories.
	DefaultDirPermissions = 0o755
	// DefaultFilePermissions is used for state files written atomically.
	DefaultFilePermissions = 0o644
)

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// ConfigDir resolves the system configuration directory, respecting the
// SENSORLOG_CONFIG_DIR override.
func ConfigDir() string {
	if env := os.Getenv("SENSORLOG_CONFIG_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
	}
	return "/etc/sensorlog"
}

// AtomicWriteFile writes data to path via a temp-file rename so the target
// is never observed partially written.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", tmpPath, err)
	}
	return nil
}
