package analysis

import (
	"math"

	"sensorlog/internal/sensor"
)

// slopeDeadband suppresses noise-driven direction flips: slopes within
// ±slopeDeadband classify as stable.
const slopeDeadband = 1e-6

// neutralTrend is returned whenever a trend cannot be computed. Stable
// direction with zero confidence; insufficient data is an expected boundary
// case, never an error.
func neutralTrend() TrendResult {
	return TrendResult{Direction: DirectionStable}
}

// AnalyzeTrend runs an ordinary least-squares regression of value against
// sample index over the most recent windowSize samples and classifies the
// direction of the fitted slope.
//
// It needs len(samples) >= windowSize >= 2; anything less yields the
// neutral stable result with zero confidence.
func AnalyzeTrend(samples []sensor.Reading, windowSize int) TrendResult {
	if windowSize < 2 || len(samples) < windowSize {
		return neutralTrend()
	}

	window := samples[len(samples)-windowSize:]

	var sumX, sumY, sumXY, sumX2 float64
	for i, s := range window {
		x := float64(i)
		sumX += x
		sumY += s.Value
		sumXY += x * s.Value
		sumX2 += x * x
	}

	n := float64(windowSize)
	denominator := n*sumX2 - sumX*sumX
	// Cannot be ~0 for unit-spaced indices with windowSize >= 2, but guard
	// rather than divide by zero.
	if math.Abs(denominator) < 1e-10 {
		return neutralTrend()
	}

	result := TrendResult{
		Slope: (n*sumXY - sumX*sumY) / denominator,
	}

	meanX := sumX / n
	meanY := sumY / n
	var sumDX2, sumDY2, sumDXDY float64
	for i, s := range window {
		dx := float64(i) - meanX
		dy := s.Value - meanY
		sumDX2 += dx * dx
		sumDY2 += dy * dy
		sumDXDY += dx * dy
	}

	if sumDX2 > 0 && sumDY2 > 0 {
		result.Correlation = sumDXDY / math.Sqrt(sumDX2*sumDY2)
		result.Confidence = math.Abs(result.Correlation)
	}

	switch {
	case math.Abs(result.Slope) < slopeDeadband:
		result.Direction = DirectionStable
	case result.Slope > 0:
		result.Direction = DirectionIncreasing
	default:
		result.Direction = DirectionDecreasing
	}

	return result
}

// RateOfChange returns the value delta per second between the oldest and
// newest samples of the analysis window (the last windowSize samples, or
// the whole array if it is shorter). Returns 0 when fewer than two samples
// exist or the window spans no time.
func RateOfChange(samples []sensor.Reading, windowSize int) float64 {
	if len(samples) < 2 || windowSize < 2 {
		return 0
	}

	start := 0
	if len(samples) >= windowSize {
		start = len(samples) - windowSize
	}
	end := len(samples) - 1
	if start >= end {
		return 0
	}

	valueChange := samples[end].Value - samples[start].Value
	timeChange := samples[end].Timestamp.Sub(samples[start].Timestamp).Seconds()
	if timeChange <= 0 {
		return 0
	}
	return valueChange / timeChange
}
