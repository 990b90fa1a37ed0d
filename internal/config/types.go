package config

// Config is the complete sensorlog configuration.
type Config struct {
	Session       SessionConfig       `yaml:"session"`
	Anomaly       AnomalyConfig       `yaml:"anomaly"`
	MovingAverage MovingAverageConfig `yaml:"moving_average"`
	Simulator     SimulatorConfig     `yaml:"simulator"`
	Logfile       LogfileConfig       `yaml:"logfile"`
	Hardware      HardwareConfig      `yaml:"hardware"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// SessionConfig controls the acquisition loop.
type SessionConfig struct {
	Mode            string `yaml:"mode"`
	DurationSeconds int    `yaml:"duration_seconds"`
	IntervalMs      int    `yaml:"interval_ms"`
}

// AnomalyConfig controls anomaly detection and trend analysis.
type AnomalyConfig struct {
	ThresholdMultiplier   float64 `yaml:"threshold_multiplier"`
	AbsoluteThreshold     float64 `yaml:"absolute_threshold"`
	MinSamplesForAnalysis int     `yaml:"min_samples_for_analysis"`
	TrendWindow           int     `yaml:"trend_window"`
}

// MovingAverageConfig controls the windowed mean filter.
type MovingAverageConfig struct {
	Window int `yaml:"window"`
}

// SimulatorConfig controls the simulated data source.
type SimulatorConfig struct {
	// Seed fixes the random stream for reproducible runs. Zero seeds from
	// the wall clock.
	Seed int64 `yaml:"seed"`
}

// LogfileConfig controls the buffered rotating CSV writer.
type LogfileConfig struct {
	Directory       string `yaml:"directory"`
	BaseName        string `yaml:"base_name"`
	RotationMiB     int    `yaml:"rotation_mib"`
	BufferRecords   int    `yaml:"buffer_records"`
	FlushIntervalMs int    `yaml:"flush_interval_ms"`
	CompressRotated bool   `yaml:"compress_rotated"`
}

// HardwareConfig controls the serial acquisition source.
type HardwareConfig struct {
	Device    string `yaml:"device"`
	BaudRate  int    `yaml:"baud_rate"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
