// Package safety maps numeric amplitude measurements onto ordinal safety
// verdicts. Policies are pluggable: the pipeline only sees the Classifier
// interface, and the bridge-vibration policy here is one instance of the
// numeric-range to ordinal-verdict pattern.
package safety

import (
	"fmt"
	"math"

	"sensorlog/internal/analysis"
	"sensorlog/internal/sensor"
)

// Tier is an ordered safety level. Higher is worse.
type Tier int

const (
	// TierInsufficientData means too few samples were available for any
	// judgement. It is an explicit verdict, never a default safe or unsafe
	// guess.
	TierInsufficientData Tier = iota
	TierSafe
	TierWarning
	TierCritical
)

// String returns the display name of the tier.
func (t Tier) String() string {
	switch t {
	case TierSafe:
		return "SAFE"
	case TierWarning:
		return "WARNING"
	case TierCritical:
		return "CRITICAL"
	default:
		return "INSUFFICIENT DATA"
	}
}

// Verdict is the outcome of a classification run.
type Verdict struct {
	Tier              Tier
	RMSAmplitude      float64
	PeakAmplitude     float64
	DominantFrequency float64
	Message           string
}

// Classifier is a replaceable domain policy over a retained sample array.
type Classifier interface {
	Classify(samples []sensor.Reading) Verdict
}

// BridgePolicy classifies bridge vibration samples into safety tiers using
// RMS and peak amplitude thresholds typical for structural monitoring.
type BridgePolicy struct {
	// SampleIntervalSeconds is the spacing of the samples handed to
	// Classify, needed for the frequency estimate.
	SampleIntervalSeconds float64

	// Tier boundaries. A sample set is Safe when both rms and peak are
	// below the Safe limits, Warning when below the Warning limits,
	// Critical otherwise.
	SafeRMS      float64
	SafePeak     float64
	WarningRMS   float64
	WarningPeak  float64
	MinSamples   int
}

// NewBridgePolicy returns a policy with the standard bridge vibration
// limits (m/s²) for the given sample spacing.
func NewBridgePolicy(sampleIntervalSeconds float64) *BridgePolicy {
	return &BridgePolicy{
		SampleIntervalSeconds: sampleIntervalSeconds,
		SafeRMS:               0.1,
		SafePeak:              0.3,
		WarningRMS:            0.3,
		WarningPeak:           0.8,
		MinSamples:            10,
	}
}

// Classify computes RMS and peak amplitude over the samples, estimates the
// dominant frequency, and maps the amplitudes to a tier. Fewer than
// MinSamples samples produce the insufficient-data verdict.
func (p *BridgePolicy) Classify(samples []sensor.Reading) Verdict {
	if len(samples) < p.MinSamples {
		return Verdict{
			Tier:    TierInsufficientData,
			Message: fmt.Sprintf("need at least %d samples, got %d", p.MinSamples, len(samples)),
		}
	}

	var sumSquares, peak float64
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
		sumSquares += s.Value * s.Value
		if s.Value > peak {
			peak = s.Value
		}
	}

	verdict := Verdict{
		RMSAmplitude:  math.Sqrt(sumSquares / float64(len(samples))),
		PeakAmplitude: peak,
	}
	verdict.DominantFrequency = analysis.EstimateFrequency(values, p.SampleIntervalSeconds).DominantFrequency

	switch {
	case verdict.RMSAmplitude < p.SafeRMS && verdict.PeakAmplitude < p.SafePeak:
		verdict.Tier = TierSafe
		verdict.Message = "normal vibration levels"
	case verdict.RMSAmplitude < p.WarningRMS && verdict.PeakAmplitude < p.WarningPeak:
		verdict.Tier = TierWarning
		verdict.Message = "elevated vibration levels, monitor closely"
	default:
		verdict.Tier = TierCritical
		verdict.Message = "excessive vibration, immediate inspection required"
	}

	return verdict
}
