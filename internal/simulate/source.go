package simulate

import (
	"context"

	"sensorlog/internal/sensor"
)

// BridgeSource adapts the simulator to the session's pull contract for
// bridge vibration monitoring: one vibration reading per tick.
type BridgeSource struct {
	sim *Simulator
}

// NewBridgeSource wraps a simulator as a bridge vibration source.
func NewBridgeSource(sim *Simulator) *BridgeSource {
	return &BridgeSource{sim: sim}
}

// Next returns one bridge vibration reading. It never fails.
func (s *BridgeSource) Next(_ context.Context) ([]sensor.Reading, error) {
	return []sensor.Reading{s.sim.BridgeVibration()}, nil
}

// Close releases nothing; the simulator holds no resources.
func (s *BridgeSource) Close() error {
	return nil
}

// EnvironmentalSource adapts the simulator as an environmental source:
// one correlated temperature/humidity/pressure triple per tick.
type EnvironmentalSource struct {
	sim *Simulator
}

// NewEnvironmentalSource wraps a simulator as an environmental source.
func NewEnvironmentalSource(sim *Simulator) *EnvironmentalSource {
	return &EnvironmentalSource{sim: sim}
}

// Next returns the environmental reading set. It never fails.
func (s *EnvironmentalSource) Next(_ context.Context) ([]sensor.Reading, error) {
	return s.sim.EnvironmentalSet(), nil
}

// Close releases nothing; the simulator holds no resources.
func (s *EnvironmentalSource) Close() error {
	return nil
}
