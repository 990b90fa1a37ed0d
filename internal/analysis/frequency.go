package analysis

// minFrequencySamples is the smallest series the peak heuristic accepts:
// fewer than four points cannot contain a meaningful interior maximum.
const minFrequencySamples = 4

// EstimateFrequency approximates the dominant oscillation rate of a series
// by counting strict local maxima: interior points greater than both
// neighbors. The frequency is peaks per total duration, the amplitude the
// largest peak value.
//
// This is a coarse heuristic, not a spectral transform. It gives a usable
// oscillation-rate estimate for monitoring purposes and nothing more; do
// not expect harmonic accuracy.
//
// Series shorter than four values or a non-positive sample interval yield
// the zero estimate.
func EstimateFrequency(values []float64, sampleIntervalSeconds float64) FrequencyEstimate {
	var estimate FrequencyEstimate

	if len(values) < minFrequencySamples || sampleIntervalSeconds <= 0 {
		return estimate
	}

	peaks := 0
	for i := 1; i < len(values)-1; i++ {
		if values[i] > values[i-1] && values[i] > values[i+1] {
			peaks++
			if values[i] > estimate.Amplitude {
				estimate.Amplitude = values[i]
			}
		}
	}

	totalDuration := float64(len(values)) * sampleIntervalSeconds
	if peaks > 0 {
		estimate.DominantFrequency = float64(peaks) / totalDuration
	}

	return estimate
}
