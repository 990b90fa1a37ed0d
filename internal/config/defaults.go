package config

const (
	// ModeBridge runs single-stream bridge vibration monitoring.
	ModeBridge = "bridge"
	// ModeEnvironmental runs the temperature/humidity/pressure set.
	ModeEnvironmental = "environmental"
)

// DefaultConfig returns a configuration with the standard defaults: a
// 60-second simulated session at 100 ms intervals, 3-sigma anomaly
// threshold and a 10 MiB rotating CSV log.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Mode:            ModeBridge,
			DurationSeconds: 60,
			IntervalMs:      100,
		},
		Anomaly: AnomalyConfig{
			ThresholdMultiplier:   3.0,
			AbsoluteThreshold:     1.0,
			MinSamplesForAnalysis: 20,
			TrendWindow:           50,
		},
		MovingAverage: MovingAverageConfig{
			Window: 20,
		},
		Simulator: SimulatorConfig{
			Seed: 0,
		},
		Logfile: LogfileConfig{
			Directory:       "data",
			BaseName:        "sensor_data",
			RotationMiB:     10,
			BufferRecords:   100,
			FlushIntervalMs: 1000,
			CompressRotated: false,
		},
		Hardware: HardwareConfig{
			Device:    "",
			BaudRate:  9600,
			TimeoutMs: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
