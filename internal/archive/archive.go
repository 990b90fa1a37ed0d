// Package archive handles rotated log files after the writer has closed
// them: optional backup copies and gzip compression. Archiving is strictly
// post-rotation housekeeping; it never touches the file currently open for
// writing.
package archive

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"sensorlog/internal/logging"
)

// Archiver compresses and backs up closed log files.
type Archiver struct {
	logger *logging.Logger
	// RemoveOriginal deletes the source file after successful compression.
	RemoveOriginal bool
}

// New returns an archiver that removes originals after compressing.
func New(logger *logging.Logger) *Archiver {
	return &Archiver{logger: logger, RemoveOriginal: true}
}

// Backup copies path to path.bak and returns the backup path.
func (a *Archiver) Backup(path string) (string, error) {
	backupPath := path + ".bak"

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("archive: cannot open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("archive: cannot create %s: %w", backupPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(backupPath)
		return "", fmt.Errorf("archive: copying to %s failed: %w", backupPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("archive: closing %s failed: %w", backupPath, err)
	}

	a.logger.Info("archive.backup_created", "Backup created", map[string]any{
		"source": path,
		"backup": backupPath,
	})
	return backupPath, nil
}

// Compress gzips path to path.gz and, when RemoveOriginal is set, deletes
// the source after the compressed file is safely on disk. Returns the
// compressed file's path.
func (a *Archiver) Compress(path string) (string, error) {
	gzPath := path + ".gz"

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("archive: cannot open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(gzPath)
	if err != nil {
		return "", fmt.Errorf("archive: cannot create %s: %w", gzPath, err)
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		dst.Close()
		os.Remove(gzPath)
		return "", fmt.Errorf("archive: compressing %s failed: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		dst.Close()
		os.Remove(gzPath)
		return "", fmt.Errorf("archive: finalizing %s failed: %w", gzPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("archive: closing %s failed: %w", gzPath, err)
	}

	if a.RemoveOriginal {
		if err := os.Remove(path); err != nil {
			// The compressed copy exists; losing the original removal is a
			// warning, not a failure.
			a.logger.Warn("archive.remove_failed", "Could not remove original after compression", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
		}
	}

	a.logger.Info("archive.compressed", "Rotated log compressed", map[string]any{
		"source":     path,
		"compressed": gzPath,
	})
	return gzPath, nil
}
