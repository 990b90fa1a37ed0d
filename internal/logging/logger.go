// Package logging provides the structured JSON event logger used by every
// component of the pipeline. Events carry a severity level, a dotted event
// type, a human-readable message and an optional payload map.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity.
type Level string

const (
	// LevelDebug indicates fine-grained diagnostic logging.
	LevelDebug Level = "debug"
	// LevelInfo indicates informational logging.
	LevelInfo Level = "info"
	// LevelWarn indicates non-fatal warnings.
	LevelWarn Level = "warn"
	// LevelError indicates error logging requiring attention.
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a configuration string to a Level. Unknown strings fall
// back to info so a typo in the config never silences the log entirely.
func ParseLevel(s string) Level {
	l := Level(s)
	if _, ok := levelRank[l]; ok {
		return l
	}
	return LevelInfo
}

// Event is one structured log record.
type Event struct {
	Timestamp string         `json:"ts"`
	Level     Level          `json:"level"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Logger writes structured events at or above its minimum level. Base fields
// set with WithFields are merged into every event payload, which is how the
// session identifier ends up on every record a session emits.
type Logger struct {
	minLevel Level
	out      io.Writer
	base     map[string]any
}

// NewLogger creates a logger writing to out. A nil out defaults to stderr.
func NewLogger(minLevel Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{minLevel: minLevel, out: out}
}

// WithFields returns a logger that attaches the given fields to every event.
// The receiver is unchanged.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{minLevel: l.minLevel, out: l.out, base: merged}
}

// Log writes one event if its level passes the threshold.
func (l *Logger) Log(level Level, eventType, message string, payload map[string]any) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	merged := payload
	if len(l.base) > 0 {
		merged = make(map[string]any, len(l.base)+len(payload))
		for k, v := range l.base {
			merged[k] = v
		}
		for k, v := range payload {
			merged[k] = v
		}
	}

	event := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Type:      eventType,
		Message:   message,
		Payload:   merged,
	}

	data, err := json.Marshal(event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal log event: %v\n", err)
		return
	}

	if _, err := fmt.Fprintln(l.out, string(data)); err != nil && l.out != os.Stderr {
		// Best effort: fall back to stderr when the primary writer fails.
		fmt.Fprintf(os.Stderr, "failed to write log event: %v\n", err)
	}
}

// Debug logs a debug-level event.
func (l *Logger) Debug(eventType, message string, payload map[string]any) {
	l.Log(LevelDebug, eventType, message, payload)
}

// Info logs an info-level event.
func (l *Logger) Info(eventType, message string, payload map[string]any) {
	l.Log(LevelInfo, eventType, message, payload)
}

// Warn logs a warn-level event.
func (l *Logger) Warn(eventType, message string, payload map[string]any) {
	l.Log(LevelWarn, eventType, message, payload)
}

// Error logs an error-level event.
func (l *Logger) Error(eventType, message string, payload map[string]any) {
	l.Log(LevelError, eventType, message, payload)
}
