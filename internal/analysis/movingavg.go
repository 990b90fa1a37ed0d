package analysis

import "fmt"

// MovingAverage is a fixed-capacity circular buffer producing a windowed
// mean in O(1) per update. The running sum always equals the sum of the
// occupied slots; once the window is full each new value evicts the oldest
// slot before insertion.
type MovingAverage struct {
	slots      []float64
	writeIndex int
	filled     int
	sum        float64
}

// NewMovingAverage creates a filter over the most recent capacity values.
// Capacity must be positive; invalid capacities are an error, never clamped.
func NewMovingAverage(capacity int) (*MovingAverage, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: moving average capacity must be positive, got %d", ErrInvalidConfiguration, capacity)
	}
	return &MovingAverage{slots: make([]float64, capacity)}, nil
}

// Update inserts value and returns the mean of the occupied window.
func (m *MovingAverage) Update(value float64) float64 {
	if m.filled == len(m.slots) {
		// Window full: evict the slot we are about to overwrite.
		m.sum -= m.slots[m.writeIndex]
	} else {
		m.filled++
	}

	m.slots[m.writeIndex] = value
	m.sum += value
	m.writeIndex = (m.writeIndex + 1) % len(m.slots)

	return m.sum / float64(m.filled)
}

// Average returns the current windowed mean without mutating state. An
// empty window yields 0; that is a documented degenerate value, not an
// error.
func (m *MovingAverage) Average() float64 {
	if m.filled == 0 {
		return 0
	}
	return m.sum / float64(m.filled)
}

// Count returns the number of occupied slots.
func (m *MovingAverage) Count() int {
	return m.filled
}

// Capacity returns the fixed window capacity.
func (m *MovingAverage) Capacity() int {
	return len(m.slots)
}
