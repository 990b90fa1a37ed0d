package analysis

import "math"

// Accumulator maintains running statistics over an unbounded stream of
// values in O(1) per update and O(1) memory. It never rescans history, so
// it stays valid for arbitrarily long sessions.
//
// An Accumulator is owned by a single goroutine; it performs no locking.
type Accumulator struct {
	count      uint64
	sum        float64
	sumSquares float64
	min        float64
	max        float64
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		min: math.Inf(1),
		max: math.Inf(-1),
	}
}

// Update folds one value into the running statistics.
func (a *Accumulator) Update(value float64) {
	a.count++
	a.sum += value
	a.sumSquares += value * value

	if value < a.min {
		a.min = value
	}
	if value > a.max {
		a.max = value
	}
}

// Count returns the number of values accumulated so far.
func (a *Accumulator) Count() uint64 {
	return a.count
}

// Reset returns the accumulator to its empty state.
func (a *Accumulator) Reset() {
	*a = *NewAccumulator()
}

// Snapshot computes all derived statistics at call time and returns them as
// a value. Derived values are never cached, so a snapshot taken mid-stream
// can never be stale.
//
// Before any values have been accumulated the snapshot is all zeros and
// Snapshot.Valid reports false; no NaN or infinity ever leaks out.
func (a *Accumulator) Snapshot() Snapshot {
	if a.count == 0 {
		return Snapshot{}
	}

	n := float64(a.count)
	mean := a.sum / n

	// Population variance from the sum of squares. Floating-point
	// cancellation can push the difference a hair below zero, so clamp.
	variance := a.sumSquares/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	return Snapshot{
		Count:      a.count,
		Sum:        a.sum,
		SumSquares: a.sumSquares,
		Min:        a.min,
		Max:        a.max,
		Mean:       mean,
		Variance:   variance,
		StdDev:     math.Sqrt(variance),
		Median:     mean,
	}
}
