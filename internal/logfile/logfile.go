// Package logfile implements the buffered rotating CSV writer that persists
// every accepted reading. Records batch in a fixed-capacity in-memory buffer
// and flush on buffer-full or when the flush interval elapses, bounding both
// syscall rate and staleness. After each flush the durable file size is
// checked against the rotation threshold and the file is rotated when
// exceeded, so rotation can never lose buffered records.
package logfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sensorlog/internal/fsutil"
	"sensorlog/internal/logging"
	"sensorlog/internal/sensor"
)

// header is the column header written at the top of every file, including
// freshly rotated ones. Part of the on-disk format.
const header = "Timestamp,Sensor_Type,Value,Unit,Description\n"

// fileTimestampLayout is the suffix appended to the base name of each file.
const fileTimestampLayout = "20060102_150405"

// Config controls buffering, flushing and rotation.
type Config struct {
	// Directory receives all log files; created if missing.
	Directory string
	// BaseName is the filename prefix shared by every file of a session.
	BaseName string
	// RotationThresholdBytes rotates the file once its durable size exceeds
	// this many bytes.
	RotationThresholdBytes int64
	// BufferCapacity is the number of records held before a forced flush.
	BufferCapacity int
	// FlushInterval bounds how stale a buffered record may get at low
	// sample rates.
	FlushInterval time.Duration
}

// DefaultConfig returns the standard logger settings: 10 MiB rotation,
// 100-record buffer, 1 s flush interval.
func DefaultConfig() Config {
	return Config{
		Directory:              "data",
		BaseName:               "sensor_data",
		RotationThresholdBytes: 10 * 1024 * 1024,
		BufferCapacity:         100,
		FlushInterval:          time.Second,
	}
}

// Validate rejects configurations the logger cannot operate with.
func (c Config) Validate() error {
	if c.BaseName == "" {
		return fmt.Errorf("logfile: base name must not be empty")
	}
	if c.RotationThresholdBytes <= 0 {
		return fmt.Errorf("logfile: rotation threshold must be positive, got %d", c.RotationThresholdBytes)
	}
	if c.BufferCapacity <= 0 {
		return fmt.Errorf("logfile: buffer capacity must be positive, got %d", c.BufferCapacity)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("logfile: flush interval must be positive, got %v", c.FlushInterval)
	}
	return nil
}

// RotatedHook runs after a rotation with the path of the closed file.
type RotatedHook func(path string)

// Writer is the buffered rotating logger. It is owned by a single goroutine
// and performs no locking. File create/open/write failures are fatal to the
// writer and propagate to the caller; the caller decides whether to abort
// the session.
type Writer struct {
	config Config
	logger *logging.Logger

	file        *os.File
	path        string
	size        int64
	buffer      []sensor.Reading
	lastFlush   time.Time
	totalLogged int64
	rotations   int

	// OnRotated, if set, runs after each rotation with the closed file's
	// path. Used to hand rotated files to the archiver.
	OnRotated RotatedHook

	now func() time.Time
}

// New creates the log directory if needed, opens the first file and writes
// its header. The first file's timestamp suffix is taken at creation time.
func New(config Config, logger *logging.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := fsutil.EnsureDir(config.Directory); err != nil {
		return nil, fmt.Errorf("logfile: %w", err)
	}

	w := &Writer{
		config: config,
		logger: logger,
		buffer: make([]sensor.Reading, 0, config.BufferCapacity),
		now:    time.Now,
	}

	if err := w.openFresh(); err != nil {
		return nil, err
	}
	w.lastFlush = w.now()

	logger.Info("logfile.opened", "Log file opened", map[string]any{
		"path": w.path,
	})
	return w, nil
}

// openFresh opens a new timestamped file and writes the header. The
// previous file, if any, must already be closed.
func (w *Writer) openFresh() error {
	name := fmt.Sprintf("%s_%s.csv", w.config.BaseName, w.now().Format(fileTimestampLayout))
	path := filepath.Join(w.config.Directory, name)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("logfile: cannot create %s: %w", path, err)
	}

	w.file = file
	w.path = path
	w.size = 0

	n, err := file.WriteString(header)
	if err != nil {
		file.Close()
		return fmt.Errorf("logfile: cannot write header to %s: %w", path, err)
	}
	w.size += int64(n)
	return nil
}

// Append buffers one reading and flushes when the buffer fills or the flush
// interval has elapsed since the last flush.
func (w *Writer) Append(reading sensor.Reading) error {
	w.buffer = append(w.buffer, reading)
	w.totalLogged++

	if len(w.buffer) >= w.config.BufferCapacity || w.now().Sub(w.lastFlush) >= w.config.FlushInterval {
		return w.Flush()
	}
	return nil
}

// Flush serializes every buffered reading, appends the batch to the open
// file, updates the durable size counter and clears the buffer. If the
// durable size then exceeds the rotation threshold the file is rotated.
//
// A record whose fields cannot be serialized safely is skipped with a
// warning rather than aborting the whole flush; that is a deliberate
// best-effort policy, and the skip is always logged.
func (w *Writer) Flush() error {
	if len(w.buffer) == 0 {
		return nil
	}

	var batch bytes.Buffer
	for _, r := range w.buffer {
		line, err := serializeRecord(r)
		if err != nil {
			w.logger.Warn("logfile.record_skipped", "Skipping unserializable record", map[string]any{
				"error": err.Error(),
				"kind":  r.Kind.String(),
			})
			continue
		}
		batch.WriteString(line)
	}

	n, err := w.file.Write(batch.Bytes())
	w.size += int64(n)
	if err != nil {
		return fmt.Errorf("logfile: write to %s failed: %w", w.path, err)
	}

	w.buffer = w.buffer[:0]
	w.lastFlush = w.now()

	if w.size > w.config.RotationThresholdBytes {
		return w.rotate()
	}
	return nil
}

// rotate closes the current file, opens a fresh one with a new timestamp
// suffix and writes its header. The buffer is always empty here because
// flush precedes the rotation check. No two files are ever open at once.
func (w *Writer) rotate() error {
	oldPath := w.path
	oldSize := w.size

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("logfile: closing %s failed: %w", oldPath, err)
	}

	if err := w.openFresh(); err != nil {
		return err
	}
	w.rotations++

	w.logger.Info("logfile.rotated", "Log file rotated", map[string]any{
		"closed":    oldPath,
		"bytes":     oldSize,
		"opened":    w.path,
		"rotations": w.rotations,
	})

	if w.OnRotated != nil {
		w.OnRotated(oldPath)
	}
	return nil
}

// Close flushes remaining buffered readings and closes the file. The flush
// is attempted even when the writer is shutting down after an error, so no
// accepted reading is silently dropped.
func (w *Writer) Close() error {
	flushErr := w.Flush()

	if err := w.file.Close(); err != nil {
		if flushErr != nil {
			return flushErr
		}
		return fmt.Errorf("logfile: closing %s failed: %w", w.path, err)
	}

	w.logger.Info("logfile.closed", "Log file closed", map[string]any{
		"path":          w.path,
		"total_records": w.totalLogged,
		"rotations":     w.rotations,
	})
	return flushErr
}

// Path returns the path of the file currently open for writing.
func (w *Writer) Path() string {
	return w.path
}

// Size returns the durable byte size of the current file. Buffered but
// unflushed records are never counted.
func (w *Writer) Size() int64 {
	return w.size
}

// TotalLogged returns the number of readings accepted over the whole
// session, across all rotated files.
func (w *Writer) TotalLogged() int64 {
	return w.totalLogged
}

// Rotations returns how many times the writer has rotated.
func (w *Writer) Rotations() int {
	return w.rotations
}

// serializeRecord renders one reading as a CSV line in the persisted
// format: timestamp, kind name, six-decimal value, unit, description.
// Fields containing the record delimiter or line breaks would corrupt the
// format and are rejected.
func serializeRecord(r sensor.Reading) (string, error) {
	if strings.ContainsAny(r.Unit, ",\r\n") {
		return "", fmt.Errorf("unit %q contains delimiter", r.Unit)
	}
	if strings.ContainsAny(r.Description, ",\r\n") {
		return "", fmt.Errorf("description %q contains delimiter", r.Description)
	}
	return fmt.Sprintf("%s,%s,%.6f,%s,%s\n",
		sensor.FormatTimestamp(r.Timestamp),
		r.Kind.String(),
		r.Value,
		r.Unit,
		r.Description,
	), nil
}
