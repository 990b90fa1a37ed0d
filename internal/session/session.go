// Package session owns one monitoring run end to end: it pulls readings
// from a source at a fixed interval, feeds them through the statistics
// accumulators, the moving-average filter and the rotating log writer,
// evaluates anomalies live once the warm-up period has passed, and produces
// the end-of-session analysis.
//
// A session is explicitly constructed and caller-owned; there is no
// process-wide state. All session data structures are owned by the single
// goroutine running the control loop, so nothing here locks.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sensorlog/internal/analysis"
	"sensorlog/internal/logfile"
	"sensorlog/internal/logging"
	"sensorlog/internal/safety"
	"sensorlog/internal/sensor"
)

// Config describes one session.
type Config struct {
	// Duration bounds the session length.
	Duration time.Duration
	// Interval is the spacing between acquisition ticks.
	Interval time.Duration

	// Analyze enables live anomaly evaluation and sample retention for the
	// end-of-session trend, frequency and classification analysis.
	Analyze bool
	// AnalyzeKind is the sensor kind the analysis chain watches.
	AnalyzeKind sensor.Kind

	// Anomaly configures the detector; only used when Analyze is set.
	Anomaly analysis.AnomalyConfig
	// TrendWindow is the regression window for the final trend estimate.
	TrendWindow int
	// MovingAverageWindow is the capacity of the windowed mean filter.
	MovingAverageWindow int
}

// Validate rejects session configurations the loop cannot run with.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: session duration must be positive, got %v", analysis.ErrInvalidConfiguration, c.Duration)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: session interval must be positive, got %v", analysis.ErrInvalidConfiguration, c.Interval)
	}
	if c.TrendWindow < 2 {
		return fmt.Errorf("%w: trend window must be at least 2, got %d", analysis.ErrInvalidConfiguration, c.TrendWindow)
	}
	return nil
}

// Update is the per-reading progress notification delivered to an observer.
type Update struct {
	Processed     int
	Reading       sensor.Reading
	MovingAverage float64
	Statistics    analysis.Snapshot
	Anomaly       analysis.AnomalyResult
}

// Session wires the pipeline together for one run.
type Session struct {
	id     string
	config Config
	logger *logging.Logger

	source     Source
	writer     *logfile.Writer
	classifier safety.Classifier

	accumulators map[sensor.Kind]*analysis.Accumulator
	movingAvg    *analysis.MovingAverage
	detector     *analysis.Detector

	// retained holds the analyzed kind's readings for the end-of-session
	// estimators, which need random access over the whole run. Capacity is
	// fixed at construction; the run stops when it fills.
	retained []sensor.Reading

	processed int
	anomalies int

	// Observer, if set, is called after each processed reading of the
	// analyzed kind (or each reading when analysis is off).
	Observer func(Update)
}

// New constructs a session. The writer is owned by the session from here
// on: Finalize closes it. A nil classifier skips classification.
func New(config Config, source Source, writer *logfile.Writer, classifier safety.Classifier, logger *logging.Logger) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	movingAvg, err := analysis.NewMovingAverage(config.MovingAverageWindow)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:           uuid.NewString(),
		config:       config,
		source:       source,
		writer:       writer,
		classifier:   classifier,
		accumulators: make(map[sensor.Kind]*analysis.Accumulator),
		movingAvg:    movingAvg,
	}
	s.logger = logger.WithFields(map[string]any{"session_id": s.id})

	if config.Analyze {
		detector, err := analysis.NewDetector(config.Anomaly)
		if err != nil {
			return nil, err
		}
		s.detector = detector

		capacity := int(config.Duration.Milliseconds() / config.Interval.Milliseconds())
		if capacity < 1 {
			capacity = 1
		}
		s.retained = make([]sensor.Reading, 0, capacity)
	}

	return s, nil
}

// ID returns the session identifier carried on every log event.
func (s *Session) ID() string {
	return s.id
}

// Run executes the control loop: pull a batch, process it, sleep until the
// next tick. It returns when the duration elapses, the retained sample
// array fills, or ctx is cancelled. Cancellation is cooperative; the
// current tick finishes first.
//
// An I/O failure from the log writer is fatal and returned as-is; buffered
// readings are still flushed best-effort by Finalize, which the caller must
// always invoke.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session.started", "Session started", map[string]any{
		"duration": s.config.Duration.String(),
		"interval": s.config.Interval.String(),
		"analyze":  s.config.Analyze,
		"log_path": s.writer.Path(),
	})

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	deadline := time.NewTimer(s.config.Duration)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session.cancelled", "Session cancelled", map[string]any{
				"processed": s.processed,
			})
			return nil

		case <-deadline.C:
			s.logger.Info("session.duration_elapsed", "Session duration elapsed", map[string]any{
				"processed": s.processed,
			})
			return nil

		case <-ticker.C:
			batch, err := s.source.Next(ctx)
			if err != nil {
				// Acquisition failure: no reading was produced this tick.
				// The loop continues; retry policy belongs to the source.
				s.logger.Warn("session.acquisition_failed", "No reading acquired", map[string]any{
					"error": err.Error(),
				})
				continue
			}

			if err := s.ProcessBatch(batch); err != nil {
				return err
			}

			if s.config.Analyze && len(s.retained) == cap(s.retained) {
				s.logger.Info("session.capacity_reached", "Retained sample capacity reached", map[string]any{
					"retained": len(s.retained),
				})
				return nil
			}
		}
	}
}

// ProcessBatch feeds each reading of a batch through the pipeline.
func (s *Session) ProcessBatch(batch []sensor.Reading) error {
	for _, reading := range batch {
		if err := s.processReading(reading); err != nil {
			return err
		}
	}
	return nil
}

// processReading runs one reading through statistics, filtering, logging
// and live anomaly evaluation.
func (s *Session) processReading(reading sensor.Reading) error {
	// Index of this reading within its kind, before updating statistics.
	// The live anomaly gate below uses it so the warm-up period counts
	// whole readings, not the just-updated baseline.
	index := s.accumulator(reading.Kind).Count()

	s.accumulator(reading.Kind).Update(reading.Value)
	s.processed++

	analyzed := s.config.Analyze && reading.Kind == s.config.AnalyzeKind

	var movingAverage float64
	if analyzed {
		movingAverage = s.movingAvg.Update(reading.Value)
		if len(s.retained) < cap(s.retained) {
			s.retained = append(s.retained, reading)
		}
	}

	if err := s.writer.Append(reading); err != nil {
		return err
	}

	var verdict analysis.AnomalyResult
	if analyzed && index >= s.config.Anomaly.MinSamplesForAnalysis {
		snapshot := s.accumulator(reading.Kind).Snapshot()
		verdict = s.detector.Evaluate(reading, snapshot)
		if verdict.IsAnomaly {
			s.anomalies++
			s.logger.Warn("session.anomaly_detected", "Anomalous reading", map[string]any{
				"kind":     reading.Kind.String(),
				"value":    reading.Value,
				"severity": verdict.Severity,
				"reason":   verdict.Reason,
			})
		}
	}

	if s.Observer != nil && (analyzed || !s.config.Analyze) {
		s.Observer(Update{
			Processed:     s.processed,
			Reading:       reading,
			MovingAverage: movingAverage,
			Statistics:    s.accumulator(reading.Kind).Snapshot(),
			Anomaly:       verdict,
		})
	}

	return nil
}

// accumulator returns the per-kind accumulator, creating it on first use.
func (s *Session) accumulator(kind sensor.Kind) *analysis.Accumulator {
	acc, ok := s.accumulators[kind]
	if !ok {
		acc = analysis.NewAccumulator()
		s.accumulators[kind] = acc
	}
	return acc
}

// CurrentStatistics returns a point-in-time snapshot for one kind. Before
// any reading of that kind arrives the snapshot is zero and not Valid.
func (s *Session) CurrentStatistics(kind sensor.Kind) analysis.Snapshot {
	acc, ok := s.accumulators[kind]
	if !ok {
		return analysis.Snapshot{}
	}
	return acc.Snapshot()
}

// EvaluateAnomaly evaluates one reading against the current baseline of
// its kind without mutating any session state.
func (s *Session) EvaluateAnomaly(reading sensor.Reading) analysis.AnomalyResult {
	if s.detector == nil {
		return analysis.AnomalyResult{Reason: "analysis disabled", DetectedAt: reading.Timestamp}
	}
	return s.detector.Evaluate(reading, s.CurrentStatistics(reading.Kind))
}

// Anomalies returns the number of live anomalies flagged so far.
func (s *Session) Anomalies() int {
	return s.anomalies
}

// Processed returns the number of readings accepted so far.
func (s *Session) Processed() int {
	return s.processed
}
