// Package analysis implements the streaming numeric engine: a running
// statistics accumulator, a circular moving-average filter, threshold-based
// anomaly detection, least-squares trend estimation and a peak-counting
// frequency estimate.
//
// Boundary conditions (empty windows, too few samples) are absorbed here and
// returned as well-defined neutral results; only invalid construction
// parameters surface as errors.
package analysis

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfiguration is returned when a component is constructed with
// parameters it cannot operate with. Invalid values are never silently
// clamped.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Snapshot is a point-in-time view of a statistics accumulator with all
// derived values computed at snapshot time. It is a plain value and stays
// coherent however long the caller holds it.
type Snapshot struct {
	Count      uint64
	Sum        float64
	SumSquares float64
	Min        float64
	Max        float64
	Mean       float64
	Variance   float64
	StdDev     float64
	// Median approximates the median with the mean. A true order-statistic
	// median would need the full sample history; the approximation is kept
	// deliberately and callers must not treat it as exact.
	Median float64
}

// Valid reports whether the snapshot is statistically meaningful. A snapshot
// taken before any values were accumulated has all fields zero and is not
// meaningful; callers must check Valid before using derived values.
func (s Snapshot) Valid() bool {
	return s.Count > 0
}

// Direction is the qualitative classification of a trend.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// TrendResult describes a least-squares fit over the analysis window.
// Confidence is the absolute Pearson correlation, in [0, 1].
type TrendResult struct {
	Slope       float64
	Correlation float64
	Direction   Direction
	Confidence  float64
}

// FrequencyEstimate is the result of the peak-counting frequency heuristic.
// DominantFrequency is in Hz, Amplitude is the largest peak value seen.
type FrequencyEstimate struct {
	DominantFrequency float64
	Amplitude         float64
}

// AnomalyConfig configures the anomaly detector.
type AnomalyConfig struct {
	// ThresholdMultiplier scales the baseline standard deviation to form the
	// statistical threshold.
	ThresholdMultiplier float64
	// AbsoluteThreshold is a hard ceiling on |value|, independent of the
	// baseline. It acts as a safety net while the statistical baseline is
	// still noisy.
	AbsoluteThreshold float64
	// MinSamplesForAnalysis is the warm-up length: readings seen while the
	// baseline has fewer samples are never flagged.
	MinSamplesForAnalysis uint64
}

// Validate checks the configuration at construction time.
func (c AnomalyConfig) Validate() error {
	if c.ThresholdMultiplier <= 0 {
		return fmt.Errorf("%w: threshold multiplier must be positive, got %v", ErrInvalidConfiguration, c.ThresholdMultiplier)
	}
	if c.AbsoluteThreshold <= 0 {
		return fmt.Errorf("%w: absolute threshold must be positive, got %v", ErrInvalidConfiguration, c.AbsoluteThreshold)
	}
	return nil
}

// AnomalyResult is the verdict for one evaluated reading. It is consumed
// immediately by reporting and never kept as state.
type AnomalyResult struct {
	IsAnomaly  bool
	Severity   float64
	Reason     string
	DetectedAt time.Time
}
