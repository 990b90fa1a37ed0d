// Package hardware acquires readings from a serial-attached sensor device.
// Incoming line frames are decoded by an ordered chain of format parsers;
// the first parser that recognizes a frame wins, and the chain order is
// part of the contract.
package hardware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sensorlog/internal/sensor"
)

// ErrUnrecognizedFrame is returned when a parser (or the whole chain) does
// not recognize a frame.
var ErrUnrecognizedFrame = errors.New("unrecognized frame")

// FrameParser decodes one wire format into a reading. Parse returns
// ErrUnrecognizedFrame when the frame belongs to a different format, so the
// chain can move on to the next parser.
type FrameParser interface {
	Name() string
	Parse(frame string) (sensor.Reading, error)
}

// ParserChain tries its parsers in priority order and returns the first
// successful decode. Order matters and is fixed at construction: if two
// formats could both decode a frame, the earlier parser wins.
type ParserChain struct {
	parsers []FrameParser
}

// NewParserChain builds a chain over the given parsers, tried in the order
// supplied.
func NewParserChain(parsers ...FrameParser) *ParserChain {
	return &ParserChain{parsers: parsers}
}

// DefaultParsers returns the standard chain: the Arduino line format first,
// then the Modbus register format.
func DefaultParsers() *ParserChain {
	return NewParserChain(&ArduinoParser{}, &ModbusParser{})
}

// Parse decodes the frame with the first parser that recognizes it.
func (c *ParserChain) Parse(frame string) (sensor.Reading, error) {
	for _, p := range c.parsers {
		reading, err := p.Parse(frame)
		if err == nil {
			return reading, nil
		}
		if !errors.Is(err, ErrUnrecognizedFrame) {
			return sensor.Reading{}, fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return sensor.Reading{}, fmt.Errorf("%w: %q", ErrUnrecognizedFrame, strings.TrimSpace(frame))
}

// ArduinoParser decodes frames of the form
// "SENSOR:TYPE:VALUE:UNIT:DESCRIPTION", e.g.
// "SENSOR:TEMP:23.45:C:Temperature".
type ArduinoParser struct{}

// arduinoKinds maps wire type tokens to sensor kinds.
var arduinoKinds = map[string]sensor.Kind{
	"TEMP":    sensor.KindTemperature,
	"VIB":     sensor.KindVibration,
	"STRAIN":  sensor.KindStrain,
	"HUM":     sensor.KindHumidity,
	"PRESS":   sensor.KindPressure,
	"ACCEL_X": sensor.KindAccelX,
	"ACCEL_Y": sensor.KindAccelY,
	"ACCEL_Z": sensor.KindAccelZ,
}

// Name identifies the parser in diagnostics.
func (p *ArduinoParser) Name() string { return "arduino" }

// Parse decodes one Arduino frame.
func (p *ArduinoParser) Parse(frame string) (sensor.Reading, error) {
	fields := strings.Split(strings.TrimRight(frame, "\r\n"), ":")
	if len(fields) < 4 || fields[0] != "SENSOR" {
		return sensor.Reading{}, ErrUnrecognizedFrame
	}

	kind, ok := arduinoKinds[fields[1]]
	if !ok {
		return sensor.Reading{}, ErrUnrecognizedFrame
	}

	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return sensor.Reading{}, fmt.Errorf("bad value %q: %w", fields[2], err)
	}

	reading := sensor.Reading{
		Kind:        kind,
		Value:       value,
		Unit:        fields[3],
		Description: "Hardware Sensor",
	}
	if len(fields) > 4 && fields[4] != "" {
		reading.Description = fields[4]
	}
	return reading, nil
}

// ModbusParser decodes frames of the form "MB:ADDR:REG:VALUE", e.g.
// "MB:01:0001:2345". Register numbers map to sensor kinds with fixed
// scaling; unknown registers decode as raw generic readings.
type ModbusParser struct{}

// Name identifies the parser in diagnostics.
func (p *ModbusParser) Name() string { return "modbus" }

// Parse decodes one Modbus frame.
func (p *ModbusParser) Parse(frame string) (sensor.Reading, error) {
	fields := strings.Split(strings.TrimRight(frame, "\r\n"), ":")
	if len(fields) < 4 || fields[0] != "MB" {
		return sensor.Reading{}, ErrUnrecognizedFrame
	}

	address, err := strconv.Atoi(fields[1])
	if err != nil {
		return sensor.Reading{}, fmt.Errorf("bad address %q: %w", fields[1], err)
	}
	register, err := strconv.Atoi(fields[2])
	if err != nil {
		return sensor.Reading{}, fmt.Errorf("bad register %q: %w", fields[2], err)
	}
	raw, err := strconv.Atoi(fields[3])
	if err != nil {
		return sensor.Reading{}, fmt.Errorf("bad value %q: %w", fields[3], err)
	}

	switch register {
	case 1:
		return sensor.Reading{Kind: sensor.KindTemperature, Value: float64(raw) / 100.0, Unit: "°C", Description: "Modbus Temperature"}, nil
	case 2:
		return sensor.Reading{Kind: sensor.KindHumidity, Value: float64(raw) / 100.0, Unit: "%", Description: "Modbus Humidity"}, nil
	case 3:
		return sensor.Reading{Kind: sensor.KindPressure, Value: float64(raw) / 10.0, Unit: "hPa", Description: "Modbus Pressure"}, nil
	default:
		return sensor.Reading{
			Kind:        sensor.KindTemperature,
			Value:       float64(raw),
			Unit:        "raw",
			Description: fmt.Sprintf("Modbus Addr:%d Reg:%d", address, register),
		}, nil
	}
}
