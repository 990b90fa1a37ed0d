package analysis

import (
	"fmt"
	"math"

	"sensorlog/internal/sensor"
)

// Detector flags readings that deviate from a baseline distribution. Two
// independent checks run per reading: a statistical threshold relative to
// the baseline standard deviation and an absolute ceiling on |value|. The
// ceiling exists because the statistical threshold is unreliable until
// enough samples have normalized the baseline.
type Detector struct {
	config AnomalyConfig
}

// NewDetector validates the configuration and returns a detector.
func NewDetector(config AnomalyConfig) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Detector{config: config}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() AnomalyConfig {
	return d.config
}

// Evaluate compares one reading against the baseline snapshot.
//
// While the baseline holds fewer than MinSamplesForAnalysis values the
// result is always "not an anomaly" with zero severity, for any value.
// That warm-up gate is deliberate: early baselines make the statistical
// threshold meaningless.
//
// When both checks fire the statistical severity is reported; the absolute
// ratio only fills in when the statistical check produced zero severity.
func (d *Detector) Evaluate(reading sensor.Reading, baseline Snapshot) AnomalyResult {
	result := AnomalyResult{
		Reason:     "normal",
		DetectedAt: reading.Timestamp,
	}

	if baseline.Count < d.config.MinSamplesForAnalysis {
		return result
	}

	deviation := math.Abs(reading.Value - baseline.Mean)
	threshold := d.config.ThresholdMultiplier * baseline.StdDev

	if deviation > threshold {
		result.IsAnomaly = true
		result.Severity = deviation / baseline.StdDev
		result.Reason = fmt.Sprintf("statistical anomaly: %.2f std devs from mean", result.Severity)
	}

	if math.Abs(reading.Value) > d.config.AbsoluteThreshold {
		result.IsAnomaly = true
		if result.Severity == 0 {
			result.Severity = math.Abs(reading.Value) / d.config.AbsoluteThreshold
			result.Reason = fmt.Sprintf("absolute threshold exceeded: %.2f", reading.Value)
		}
	}

	return result
}

// EvaluateBatch builds a baseline from the full sample array and evaluates
// every sample against it. It returns the per-sample results and the number
// of anomalies found. Used at session end, where the whole retained array is
// available.
func (d *Detector) EvaluateBatch(samples []sensor.Reading) ([]AnomalyResult, int) {
	baseline := NewAccumulator()
	for _, s := range samples {
		baseline.Update(s.Value)
	}
	snapshot := baseline.Snapshot()

	results := make([]AnomalyResult, len(samples))
	anomalies := 0
	for i, s := range samples {
		results[i] = d.Evaluate(s, snapshot)
		if results[i].IsAnomaly {
			anomalies++
		}
	}
	return results, anomalies
}
