package hardware

import (
	"errors"
	"testing"

	"sensorlog/internal/sensor"
)

func TestArduinoParser_Parse(t *testing.T) {
	parser := &ArduinoParser{}

	tests := []struct {
		name        string
		frame       string
		kind        sensor.Kind
		value       float64
		unit        string
		description string
	}{
		{"temperature", "SENSOR:TEMP:23.45:C:Temperature", sensor.KindTemperature, 23.45, "C", "Temperature"},
		{"vibration", "SENSOR:VIB:0.125:m/s2:Deck Vibration", sensor.KindVibration, 0.125, "m/s2", "Deck Vibration"},
		{"strain", "SENSOR:STRAIN:101.5:ue:Strain Gauge", sensor.KindStrain, 101.5, "ue", "Strain Gauge"},
		{"accel z", "SENSOR:ACCEL_Z:9.81:m/s2:Accelerometer", sensor.KindAccelZ, 9.81, "m/s2", "Accelerometer"},
		{"missing description", "SENSOR:HUM:45.2:%", sensor.KindHumidity, 45.2, "%", "Hardware Sensor"},
		{"empty description", "SENSOR:PRESS:1013.2:hPa:", sensor.KindPressure, 1013.2, "hPa", "Hardware Sensor"},
		{"trailing newline", "SENSOR:TEMP:21.0:C:Temperature\r\n", sensor.KindTemperature, 21.0, "C", "Temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading, err := parser.Parse(tt.frame)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if reading.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, reading.Kind)
			}
			if reading.Value != tt.value {
				t.Errorf("Expected value %v, got %v", tt.value, reading.Value)
			}
			if reading.Unit != tt.unit {
				t.Errorf("Expected unit %q, got %q", tt.unit, reading.Unit)
			}
			if reading.Description != tt.description {
				t.Errorf("Expected description %q, got %q", tt.description, reading.Description)
			}
		})
	}
}

func TestArduinoParser_Unrecognized(t *testing.T) {
	parser := &ArduinoParser{}

	tests := []struct {
		name  string
		frame string
	}{
		{"wrong prefix", "DATA:TEMP:23.45:C"},
		{"unknown type token", "SENSOR:LIGHT:100:lux"},
		{"too few fields", "SENSOR:TEMP:23.45"},
		{"empty frame", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.frame)
			if !errors.Is(err, ErrUnrecognizedFrame) {
				t.Errorf("Expected ErrUnrecognizedFrame, got %v", err)
			}
		})
	}
}

func TestArduinoParser_BadValue(t *testing.T) {
	parser := &ArduinoParser{}

	_, err := parser.Parse("SENSOR:TEMP:abc:C:Temperature")
	if err == nil {
		t.Fatal("Expected error for non-numeric value")
	}
	if errors.Is(err, ErrUnrecognizedFrame) {
		t.Error("Expected a decode error, not ErrUnrecognizedFrame")
	}
}

func TestModbusParser_Parse(t *testing.T) {
	parser := &ModbusParser{}

	tests := []struct {
		name  string
		frame string
		kind  sensor.Kind
		value float64
		unit  string
	}{
		{"temperature reg 1", "MB:01:1:2345", sensor.KindTemperature, 23.45, "°C"},
		{"humidity reg 2", "MB:01:2:4520", sensor.KindHumidity, 45.20, "%"},
		{"pressure reg 3", "MB:01:3:10132", sensor.KindPressure, 1013.2, "hPa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading, err := parser.Parse(tt.frame)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if reading.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, reading.Kind)
			}
			if reading.Value != tt.value {
				t.Errorf("Expected value %v, got %v", tt.value, reading.Value)
			}
			if reading.Unit != tt.unit {
				t.Errorf("Expected unit %q, got %q", tt.unit, reading.Unit)
			}
		})
	}
}

func TestModbusParser_UnknownRegister(t *testing.T) {
	parser := &ModbusParser{}

	reading, err := parser.Parse("MB:02:17:512")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if reading.Value != 512.0 {
		t.Errorf("Expected raw value 512, got %v", reading.Value)
	}
	if reading.Unit != "raw" {
		t.Errorf("Expected raw unit, got %q", reading.Unit)
	}
	if reading.Description != "Modbus Addr:2 Reg:17" {
		t.Errorf("Expected address and register in description, got %q", reading.Description)
	}
}

func TestModbusParser_Unrecognized(t *testing.T) {
	parser := &ModbusParser{}

	_, err := parser.Parse("SENSOR:TEMP:23.4:C")
	if !errors.Is(err, ErrUnrecognizedFrame) {
		t.Errorf("Expected ErrUnrecognizedFrame, got %v", err)
	}
}

func TestParserChain_FirstMatchWins(t *testing.T) {
	chain := DefaultParsers()

	reading, err := chain.Parse("SENSOR:TEMP:23.45:C:Temperature")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if reading.Description != "Temperature" {
		t.Errorf("Expected Arduino parser to win, got description %q", reading.Description)
	}

	reading, err = chain.Parse("MB:01:1:2345")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if reading.Description != "Modbus Temperature" {
		t.Errorf("Expected Modbus parser to decode, got description %q", reading.Description)
	}
}

func TestParserChain_Unrecognized(t *testing.T) {
	chain := DefaultParsers()

	_, err := chain.Parse("garbage line")
	if !errors.Is(err, ErrUnrecognizedFrame) {
		t.Errorf("Expected ErrUnrecognizedFrame, got %v", err)
	}
}

func TestParserChain_StopsOnDecodeError(t *testing.T) {
	chain := DefaultParsers()

	// The frame is recognized by the Arduino parser but fails to decode;
	// the chain must report the failure instead of falling through.
	_, err := chain.Parse("SENSOR:TEMP:notanumber:C")
	if err == nil {
		t.Fatal("Expected error for undecodable value")
	}
	if errors.Is(err, ErrUnrecognizedFrame) {
		t.Error("Expected a decode error, not ErrUnrecognizedFrame")
	}
}
