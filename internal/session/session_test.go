package session

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"sensorlog/internal/analysis"
	"sensorlog/internal/logfile"
	"sensorlog/internal/logging"
	"sensorlog/internal/sensor"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelError, io.Discard)
}

func testWriter(t *testing.T) *logfile.Writer {
	t.Helper()
	w, err := logfile.New(logfile.Config{
		Directory:              t.TempDir(),
		BaseName:               "test_data",
		RotationThresholdBytes: 1024 * 1024,
		BufferCapacity:         10,
		FlushInterval:          time.Second,
	}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	return w
}

func testConfig() Config {
	return Config{
		Duration:    10 * time.Second,
		Interval:    100 * time.Millisecond,
		Analyze:     true,
		AnalyzeKind: sensor.KindTemperature,
		Anomaly: analysis.AnomalyConfig{
			ThresholdMultiplier:   2.0,
			AbsoluteThreshold:     100.0,
			MinSamplesForAnalysis: 5,
		},
		TrendWindow:         10,
		MovingAverageWindow: 5,
	}
}

func reading(value float64, at time.Time) sensor.Reading {
	return sensor.Reading{
		Timestamp:   at,
		Kind:        sensor.KindTemperature,
		Value:       value,
		Unit:        "°C",
		Description: "Simulated Sensor",
	}
}

// scriptedSource replays fixed batches and then blocks on the context.
type scriptedSource struct {
	batches [][]sensor.Reading
	errs    []error
	calls   int
}

func (s *scriptedSource) Next(ctx context.Context) ([]sensor.Reading, error) {
	if s.calls < len(s.errs) && s.errs[s.calls] != nil {
		err := s.errs[s.calls]
		s.calls++
		return nil, err
	}
	if s.calls < len(s.batches) {
		batch := s.batches[s.calls]
		s.calls++
		return batch, nil
	}
	s.calls++
	return []sensor.Reading{reading(20.0, time.Now())}, nil
}

func (s *scriptedSource) Close() error { return nil }

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero duration", func(c *Config) { c.Duration = 0 }, true},
		{"negative duration", func(c *Config) { c.Duration = -time.Second }, true},
		{"zero interval", func(c *Config) { c.Interval = 0 }, true},
		{"trend window too small", func(c *Config) { c.TrendWindow = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if tt.wantErr && !errors.Is(err, analysis.ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	config := testConfig()
	config.Interval = 0

	_, err := New(config, &scriptedSource{}, testWriter(t), nil, testLogger())
	if err == nil {
		t.Error("Expected error for invalid config, got nil")
	}
}

func TestSession_AnomalyWarmupGate(t *testing.T) {
	sess, err := New(testConfig(), &scriptedSource{}, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer sess.Finalize()

	// Readings one through five fall inside the warm-up period; even the
	// extreme fifth value must not be flagged.
	start := time.Now()
	values := []float64{1.0, 1.0, 1.0, 1.0, 1e9}
	for i, v := range values {
		if err := sess.ProcessBatch([]sensor.Reading{reading(v, start.Add(time.Duration(i) * time.Second))}); err != nil {
			t.Fatalf("ProcessBatch failed: %v", err)
		}
	}

	if sess.Anomalies() != 0 {
		t.Errorf("Expected no anomalies during warm-up, got %d", sess.Anomalies())
	}
}

func TestSession_DetectsAnomalyAfterWarmup(t *testing.T) {
	sess, err := New(testConfig(), &scriptedSource{}, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer sess.Finalize()

	var last Update
	sess.Observer = func(u Update) { last = u }

	start := time.Now()
	values := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 10.0}
	for i, v := range values {
		if err := sess.ProcessBatch([]sensor.Reading{reading(v, start.Add(time.Duration(i) * time.Second))}); err != nil {
			t.Fatalf("ProcessBatch failed: %v", err)
		}
	}

	if sess.Anomalies() != 1 {
		t.Fatalf("Expected 1 anomaly, got %d", sess.Anomalies())
	}
	if !last.Anomaly.IsAnomaly {
		t.Fatal("Expected last update to carry the anomaly")
	}
	if math.Abs(last.Anomaly.Severity-2.2360679) > 1e-4 {
		t.Errorf("Expected severity near 2.236, got %v", last.Anomaly.Severity)
	}
}

func TestSession_IgnoresOtherKinds(t *testing.T) {
	sess, err := New(testConfig(), &scriptedSource{}, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer sess.Finalize()

	pressure := sensor.Reading{
		Timestamp: time.Now(),
		Kind:      sensor.KindPressure,
		Value:     1013.2,
		Unit:      "hPa",
	}
	if err := sess.ProcessBatch([]sensor.Reading{pressure}); err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if sess.Processed() != 1 {
		t.Errorf("Expected 1 processed reading, got %d", sess.Processed())
	}
	stats := sess.CurrentStatistics(sensor.KindPressure)
	if stats.Count != 1 {
		t.Errorf("Expected pressure accumulator count 1, got %d", stats.Count)
	}
	temp := sess.CurrentStatistics(sensor.KindTemperature)
	if temp.Count != 0 {
		t.Errorf("Expected untouched temperature accumulator, got count %d", temp.Count)
	}
}

func TestSession_RetainedCapacityStopsAppending(t *testing.T) {
	config := testConfig()
	config.Duration = 100 * time.Millisecond
	config.Interval = 50 * time.Millisecond
	config.TrendWindow = 2

	sess, err := New(config, &scriptedSource{}, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer sess.Finalize()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := sess.ProcessBatch([]sensor.Reading{reading(float64(i), start.Add(time.Duration(i) * time.Second))}); err != nil {
			t.Fatalf("ProcessBatch failed: %v", err)
		}
	}

	// Capacity is duration/interval = 2; extra readings are still processed
	// and logged but no longer retained.
	if sess.Processed() != 5 {
		t.Errorf("Expected 5 processed readings, got %d", sess.Processed())
	}
	if got := len(sess.retained); got != 2 {
		t.Errorf("Expected 2 retained samples, got %d", got)
	}
}

func TestSession_Run_AcquisitionFailureContinues(t *testing.T) {
	config := testConfig()
	config.Duration = 200 * time.Millisecond
	config.Interval = 20 * time.Millisecond

	source := &scriptedSource{
		errs: []error{errors.New("device timeout")},
	}
	sess, err := New(config, source, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sess.Processed() == 0 {
		t.Error("Expected readings after transient acquisition failure")
	}
	if _, err := sess.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
}

func TestSession_Run_ContextCancellation(t *testing.T) {
	config := testConfig()
	config.Duration = time.Hour
	config.Interval = 10 * time.Millisecond

	sess, err := New(config, &scriptedSource{}, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer sess.Finalize()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil on cancellation, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestSession_Finalize(t *testing.T) {
	config := testConfig()
	config.TrendWindow = 5

	sess, err := New(config, &scriptedSource{}, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	start := time.Now()
	for i := 0; i < 10; i++ {
		r := reading(20.0+0.5*float64(i), start.Add(time.Duration(i)*time.Second))
		if err := sess.ProcessBatch([]sensor.Reading{r}); err != nil {
			t.Fatalf("ProcessBatch failed: %v", err)
		}
	}

	result, err := sess.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if result.SessionID != sess.ID() {
		t.Errorf("Expected session ID %q, got %q", sess.ID(), result.SessionID)
	}
	if result.Processed != 10 {
		t.Errorf("Expected 10 processed readings, got %d", result.Processed)
	}
	if result.LoggedCount != 10 {
		t.Errorf("Expected 10 logged records, got %d", result.LoggedCount)
	}
	if result.LogPath == "" {
		t.Error("Expected a log path in the result")
	}

	stats, ok := result.Statistics[sensor.KindTemperature]
	if !ok {
		t.Fatal("Expected temperature statistics in the result")
	}
	if stats.Count != 10 {
		t.Errorf("Expected count 10, got %d", stats.Count)
	}

	if result.Trend.Direction != analysis.DirectionIncreasing {
		t.Errorf("Expected increasing trend, got %s", result.Trend.Direction)
	}
	if math.Abs(result.Trend.Slope-0.5) > 1e-9 {
		t.Errorf("Expected slope 0.5, got %v", result.Trend.Slope)
	}
	if math.Abs(result.RateOfChange-0.5) > 1e-9 {
		t.Errorf("Expected rate of change 0.5 per second, got %v", result.RateOfChange)
	}
	if result.Verdict != nil {
		t.Error("Expected no verdict without a classifier")
	}
}

func TestSession_Finalize_SortedKinds(t *testing.T) {
	sess, err := New(testConfig(), &scriptedSource{}, testWriter(t), nil, testLogger())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	now := time.Now()
	batch := []sensor.Reading{
		{Timestamp: now, Kind: sensor.KindPressure, Value: 1013.0, Unit: "hPa"},
		{Timestamp: now, Kind: sensor.KindTemperature, Value: 20.0, Unit: "°C"},
		{Timestamp: now, Kind: sensor.KindHumidity, Value: 50.0, Unit: "%"},
	}
	if err := sess.ProcessBatch(batch); err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	result, err := sess.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	kinds := result.Kinds()
	if len(kinds) != 3 {
		t.Fatalf("Expected 3 kinds, got %d", len(kinds))
	}
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] >= kinds[i] {
			t.Errorf("Expected sorted kinds, got %v", kinds)
		}
	}
}
