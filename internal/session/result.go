package session

import (
	"sort"

	"sensorlog/internal/analysis"
	"sensorlog/internal/safety"
	"sensorlog/internal/sensor"
)

// Result is the end-of-session report produced by Finalize.
type Result struct {
	SessionID string
	Processed int

	// Statistics holds the final per-kind accumulator snapshots.
	Statistics map[sensor.Kind]analysis.Snapshot

	// The remaining analysis fields are only populated when the session
	// was configured with Analyze.
	Trend          analysis.TrendResult
	Frequency      analysis.FrequencyEstimate
	RateOfChange   float64
	MovingAverage  float64
	LiveAnomalies  int
	BatchAnomalies int

	// Verdict is nil when no classifier was attached.
	Verdict *safety.Verdict

	LogPath      string
	LoggedCount  int64
	LogRotations int
}

// Kinds returns the kinds present in the result in stable order.
func (r Result) Kinds() []sensor.Kind {
	kinds := make([]sensor.Kind, 0, len(r.Statistics))
	for kind := range r.Statistics {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Finalize flushes and closes the log writer and computes the
// end-of-session analysis over the retained samples. It must be called
// exactly once, on every exit path of Run, including errors: this is where
// buffered readings reach disk.
func (s *Session) Finalize() (Result, error) {
	closeErr := s.writer.Close()

	result := Result{
		SessionID:     s.id,
		Processed:     s.processed,
		Statistics:    make(map[sensor.Kind]analysis.Snapshot, len(s.accumulators)),
		LiveAnomalies: s.anomalies,
		LogPath:       s.writer.Path(),
		LoggedCount:   s.writer.TotalLogged(),
		LogRotations:  s.writer.Rotations(),
	}
	for kind, acc := range s.accumulators {
		result.Statistics[kind] = acc.Snapshot()
	}

	if s.config.Analyze {
		result.MovingAverage = s.movingAvg.Average()
		result.Trend = analysis.AnalyzeTrend(s.retained, s.config.TrendWindow)
		result.RateOfChange = analysis.RateOfChange(s.retained, s.config.TrendWindow)

		values := make([]float64, len(s.retained))
		for i, r := range s.retained {
			values[i] = r.Value
		}
		result.Frequency = analysis.EstimateFrequency(values, s.config.Interval.Seconds())

		_, batchCount := s.detector.EvaluateBatch(s.retained)
		result.BatchAnomalies = batchCount

		if s.classifier != nil {
			verdict := s.classifier.Classify(s.retained)
			result.Verdict = &verdict
		}
	}

	s.logger.Info("session.finished", "Session finished", map[string]any{
		"processed": result.Processed,
		"anomalies": result.LiveAnomalies,
		"logged":    result.LoggedCount,
		"rotations": result.LogRotations,
		"log_path":  result.LogPath,
	})

	return result, closeErr
}
