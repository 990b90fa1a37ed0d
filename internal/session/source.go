package session

import (
	"context"

	"sensorlog/internal/sensor"
)

// Source is the acquisition contract the session pulls from: one small
// batch of readings per tick, in non-decreasing timestamp order.
//
// A nil batch with a nil error means the source produced nothing this tick
// (a read timeout, for instance); the session records the miss and keeps
// looping. A non-nil error is an acquisition failure: the session logs it
// and continues; nothing was accepted, so nothing can be lost.
type Source interface {
	Next(ctx context.Context) ([]sensor.Reading, error)
	Close() error
}
