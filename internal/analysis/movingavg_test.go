package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestMovingAverage_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		_, err := NewMovingAverage(capacity)
		if err == nil {
			t.Errorf("Expected error for capacity %d", capacity)
		}
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Expected ErrInvalidConfiguration for capacity %d, got %v", capacity, err)
		}
	}
}

func TestMovingAverage_PartialWindow(t *testing.T) {
	ma, err := NewMovingAverage(5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := ma.Update(2.0); got != 2.0 {
		t.Errorf("Expected average 2.0 after first value, got %v", got)
	}
	if got := ma.Update(4.0); got != 3.0 {
		t.Errorf("Expected average 3.0 after second value, got %v", got)
	}
	if ma.Count() != 2 {
		t.Errorf("Expected count 2, got %d", ma.Count())
	}
}

func TestMovingAverage_EvictsOldest(t *testing.T) {
	ma, err := NewMovingAverage(3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ma.Update(1.0)
	ma.Update(2.0)
	ma.Update(3.0)

	// Fourth value evicts the 1.0; window is now {2, 3, 4}.
	if got := ma.Update(4.0); got != 3.0 {
		t.Errorf("Expected average 3.0 after eviction, got %v", got)
	}
	if got := ma.Update(5.0); got != 4.0 {
		t.Errorf("Expected average 4.0, got %v", got)
	}
	if ma.Count() != 3 {
		t.Errorf("Expected count capped at capacity 3, got %d", ma.Count())
	}
}

func TestMovingAverage_ConstantStream(t *testing.T) {
	ma, err := NewMovingAverage(10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < 100; i++ {
		if got := ma.Update(7.5); got != 7.5 {
			t.Fatalf("Expected average 7.5 at step %d, got %v", i, got)
		}
	}
}

// The running sum must stay consistent with a direct mean over the window
// across many evictions.
func TestMovingAverage_MatchesDirectWindowMean(t *testing.T) {
	const capacity = 8
	ma, err := NewMovingAverage(capacity)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var history []float64
	seed := 99.0
	for i := 0; i < 200; i++ {
		seed = math.Mod(seed*16807, 2147483647)
		v := seed / 2147483647.0 * 50.0
		history = append(history, v)

		got := ma.Update(v)

		start := len(history) - capacity
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, w := range history[start:] {
			sum += w
		}
		want := sum / float64(len(history)-start)

		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("Step %d: expected windowed mean %v, got %v", i, want, got)
		}
	}
}

func TestMovingAverage_AverageWithoutValues(t *testing.T) {
	ma, err := NewMovingAverage(4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := ma.Average(); got != 0 {
		t.Errorf("Expected 0 for empty window, got %v", got)
	}
}

func TestMovingAverage_WindowOfOne(t *testing.T) {
	ma, err := NewMovingAverage(1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ma.Update(10.0)
	if got := ma.Update(20.0); got != 20.0 {
		t.Errorf("Expected window of one to track latest value, got %v", got)
	}
}
