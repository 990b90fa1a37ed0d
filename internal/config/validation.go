package config

import "fmt"

// Validate checks the full configuration and returns every violation found.
// Invalid values are reported, never silently clamped.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSession()...)
	errors = append(errors, c.validateAnomaly()...)
	errors = append(errors, c.validateMovingAverage()...)
	errors = append(errors, c.validateLogfile()...)
	errors = append(errors, c.validateHardware()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateSession() []ValidationError {
	var errors []ValidationError

	if c.Session.Mode != ModeBridge && c.Session.Mode != ModeEnvironmental {
		errors = append(errors, ValidationError{
			Path:    "session.mode",
			Message: fmt.Sprintf("must be '%s' or '%s', got '%s'", ModeBridge, ModeEnvironmental, c.Session.Mode),
		})
	}
	if c.Session.DurationSeconds <= 0 {
		errors = append(errors, ValidationError{
			Path:    "session.duration_seconds",
			Message: fmt.Sprintf("must be positive, got %d", c.Session.DurationSeconds),
		})
	}
	if c.Session.IntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Path:    "session.interval_ms",
			Message: fmt.Sprintf("must be positive, got %d", c.Session.IntervalMs),
		})
	}

	return errors
}

func (c *Config) validateAnomaly() []ValidationError {
	var errors []ValidationError

	if c.Anomaly.ThresholdMultiplier <= 0 {
		errors = append(errors, ValidationError{
			Path:    "anomaly.threshold_multiplier",
			Message: fmt.Sprintf("must be positive, got %v", c.Anomaly.ThresholdMultiplier),
		})
	}
	if c.Anomaly.AbsoluteThreshold <= 0 {
		errors = append(errors, ValidationError{
			Path:    "anomaly.absolute_threshold",
			Message: fmt.Sprintf("must be positive, got %v", c.Anomaly.AbsoluteThreshold),
		})
	}
	if c.Anomaly.MinSamplesForAnalysis < 1 {
		errors = append(errors, ValidationError{
			Path:    "anomaly.min_samples_for_analysis",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Anomaly.MinSamplesForAnalysis),
		})
	}
	if c.Anomaly.TrendWindow < 2 {
		errors = append(errors, ValidationError{
			Path:    "anomaly.trend_window",
			Message: fmt.Sprintf("must be at least 2, got %d", c.Anomaly.TrendWindow),
		})
	}

	return errors
}

func (c *Config) validateMovingAverage() []ValidationError {
	if c.MovingAverage.Window > 0 {
		return nil
	}
	return []ValidationError{{
		Path:    "moving_average.window",
		Message: fmt.Sprintf("must be positive, got %d", c.MovingAverage.Window),
	}}
}

func (c *Config) validateLogfile() []ValidationError {
	var errors []ValidationError

	if c.Logfile.BaseName == "" {
		errors = append(errors, ValidationError{
			Path:    "logfile.base_name",
			Message: "must not be empty",
		})
	}
	if c.Logfile.RotationMiB <= 0 {
		errors = append(errors, ValidationError{
			Path:    "logfile.rotation_mib",
			Message: fmt.Sprintf("must be positive, got %d", c.Logfile.RotationMiB),
		})
	}
	if c.Logfile.BufferRecords <= 0 {
		errors = append(errors, ValidationError{
			Path:    "logfile.buffer_records",
			Message: fmt.Sprintf("must be positive, got %d", c.Logfile.BufferRecords),
		})
	}
	if c.Logfile.FlushIntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Path:    "logfile.flush_interval_ms",
			Message: fmt.Sprintf("must be positive, got %d", c.Logfile.FlushIntervalMs),
		})
	}

	return errors
}

func (c *Config) validateHardware() []ValidationError {
	var errors []ValidationError

	if c.Hardware.BaudRate <= 0 {
		errors = append(errors, ValidationError{
			Path:    "hardware.baud_rate",
			Message: fmt.Sprintf("must be positive, got %d", c.Hardware.BaudRate),
		})
	}
	if c.Hardware.TimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Path:    "hardware.timeout_ms",
			Message: fmt.Sprintf("must be positive, got %d", c.Hardware.TimeoutMs),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, level := range validLevels {
		if c.Logging.Level == level {
			return nil
		}
	}
	return []ValidationError{{
		Path:    "logging.level",
		Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
	}}
}
