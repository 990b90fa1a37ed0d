// Package sensor defines the data contract shared by every part of the
// pipeline: a timestamped scalar reading with type, unit and description
// metadata. Readings are plain values and are copied between components;
// nothing in this package mutates a reading after it is produced.
package sensor

import "time"

// Kind identifies the physical quantity a reading measures.
type Kind int

const (
	KindTemperature Kind = iota
	KindVibration
	KindStrain
	KindHumidity
	KindPressure
	KindAccelX
	KindAccelY
	KindAccelZ

	kindCount
)

// kindNames is the fixed name table used in persisted CSV records. The
// rendered names are part of the on-disk format and must not change.
var kindNames = [kindCount]string{
	"Temperature",
	"Vibration",
	"Strain",
	"Humidity",
	"Pressure",
	"Accel_X",
	"Accel_Y",
	"Accel_Z",
}

// String returns the persisted name for the kind. Out-of-range kinds render
// as "Unknown" rather than failing, so a corrupted type code can never abort
// a log flush.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// Valid reports whether the kind is one of the known sensor types.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// KindCount returns the number of known sensor kinds.
func KindCount() int {
	return int(kindCount)
}

// Reading is one timestamped scalar measurement.
type Reading struct {
	Kind        Kind
	Value       float64
	Unit        string
	Description string
	Timestamp   time.Time
}

// timestampLayout renders timestamps with six-digit sub-second precision,
// matching the persisted log format exactly.
const timestampLayout = "2006-01-02 15:04:05.000000"

// FormatTimestamp renders t in the persisted log timestamp format
// (YYYY-MM-DD HH:MM:SS.ffffff).
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// ParseTimestamp parses a timestamp in the persisted log format. It is the
// inverse of FormatTimestamp and is used by tests and log readers.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, time.Local)
}
