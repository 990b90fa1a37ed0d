package simulate

import (
	"context"
	"testing"

	"sensorlog/internal/sensor"
)

func TestSimulator_DeterministicBySeed(t *testing.T) {
	a := New(0.1, 42)
	b := New(0.1, 42)

	for i := 0; i < 100; i++ {
		va := a.Generate(sensor.KindTemperature).Value
		vb := b.Generate(sensor.KindTemperature).Value
		if va != vb {
			t.Fatalf("Step %d: expected identical values for equal seeds, got %v and %v", i, va, vb)
		}
	}
}

func TestSimulator_DifferentSeedsDiverge(t *testing.T) {
	a := New(0.1, 1)
	b := New(0.1, 2)

	same := true
	for i := 0; i < 20; i++ {
		if a.Generate(sensor.KindTemperature).Value != b.Generate(sensor.KindTemperature).Value {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different seeds to produce different streams")
	}
}

func TestSimulator_Metadata(t *testing.T) {
	sim := New(0.1, 42)

	tests := []struct {
		kind sensor.Kind
		unit string
	}{
		{sensor.KindTemperature, "°C"},
		{sensor.KindVibration, "m/s²"},
		{sensor.KindStrain, "µε"},
		{sensor.KindHumidity, "%"},
		{sensor.KindPressure, "hPa"},
	}

	for _, tt := range tests {
		r := sim.Generate(tt.kind)
		if r.Unit != tt.unit {
			t.Errorf("Expected unit %q for %s, got %q", tt.unit, tt.kind, r.Unit)
		}
		if r.Kind != tt.kind {
			t.Errorf("Expected kind %s, got %s", tt.kind, r.Kind)
		}
		if r.Timestamp.IsZero() {
			t.Errorf("Expected timestamp to be set for %s", tt.kind)
		}
	}
}

func TestSimulator_UnknownKind(t *testing.T) {
	sim := New(0.1, 42)

	r := sim.Generate(sensor.Kind(99))

	if r.Unit != "N/A" {
		t.Errorf("Expected N/A unit for unknown kind, got %q", r.Unit)
	}
	if r.Value != 0 {
		t.Errorf("Expected zero value for unknown kind, got %v", r.Value)
	}
}

func TestSimulator_PhysicalClamps(t *testing.T) {
	sim := New(0.1, 42)

	for i := 0; i < 2000; i++ {
		if v := sim.Generate(sensor.KindTemperature).Value; v < -50.0 || v > 80.0 {
			t.Fatalf("Temperature %v outside [-50, 80]", v)
		}
		if v := sim.Generate(sensor.KindHumidity).Value; v < 0.0 || v > 100.0 {
			t.Fatalf("Humidity %v outside [0, 100]", v)
		}
		if v := sim.Generate(sensor.KindPressure).Value; v < 800.0 || v > 1200.0 {
			t.Fatalf("Pressure %v outside [800, 1200]", v)
		}
		if v := sim.Generate(sensor.KindVibration).Value; v < 0 {
			t.Fatalf("Vibration %v negative", v)
		}
	}
}

func TestSimulator_BridgeVibrationRange(t *testing.T) {
	sim := New(0.01, 42)

	for i := 0; i < 2000; i++ {
		r := sim.BridgeVibration()
		if r.Value < 0.0 || r.Value > 1.0 {
			t.Fatalf("Bridge vibration %v outside [0, 1]", r.Value)
		}
		if r.Kind != sensor.KindVibration {
			t.Fatalf("Expected vibration kind, got %s", r.Kind)
		}
		if r.Description != "Bridge Vibration" {
			t.Fatalf("Expected bridge description, got %q", r.Description)
		}
	}
}

func TestSimulator_EnvironmentalSet(t *testing.T) {
	sim := New(0.1, 42)

	readings := sim.EnvironmentalSet()

	if len(readings) != 3 {
		t.Fatalf("Expected 3 readings, got %d", len(readings))
	}
	wantKinds := []sensor.Kind{sensor.KindTemperature, sensor.KindHumidity, sensor.KindPressure}
	for i, want := range wantKinds {
		if readings[i].Kind != want {
			t.Errorf("Expected reading %d to be %s, got %s", i, want, readings[i].Kind)
		}
	}
	if readings[1].Value < 0.0 || readings[1].Value > 100.0 {
		t.Errorf("Humidity %v outside [0, 100] after correlation", readings[1].Value)
	}
}

func TestSimulator_EnvironmentalHumidityCorrelation(t *testing.T) {
	sim := New(0.1, 42)

	// Force extreme temperatures via the profile and verify the humidity
	// adjustment direction.
	hot := DefaultProfiles()[sensor.KindTemperature]
	hot.BaseValue = 40.0
	hot.NoiseAmplitude = 0
	hot.SeasonalAmplitude = 0
	hot.AnomalyProbability = 0
	sim.Configure(sensor.KindTemperature, hot)

	humidity := DefaultProfiles()[sensor.KindHumidity]
	humidity.BaseValue = 50.0
	humidity.NoiseAmplitude = 0
	humidity.SeasonalAmplitude = 0
	humidity.AnomalyProbability = 0
	humidity.TrendRate = 0
	sim.Configure(sensor.KindHumidity, humidity)

	readings := sim.EnvironmentalSet()
	if readings[1].Value >= 50.0 {
		t.Errorf("Expected humidity below base 50 when hot, got %v", readings[1].Value)
	}

	cold := hot
	cold.BaseValue = 0.0
	sim.Configure(sensor.KindTemperature, cold)

	readings = sim.EnvironmentalSet()
	if readings[1].Value <= 50.0 {
		t.Errorf("Expected humidity above base 50 when cold, got %v", readings[1].Value)
	}
}

func TestSimulator_StepAdvances(t *testing.T) {
	sim := New(0.1, 42)

	if sim.Steps() != 0 {
		t.Errorf("Expected zero steps initially, got %d", sim.Steps())
	}
	sim.Generate(sensor.KindTemperature)
	sim.Generate(sensor.KindPressure)
	if sim.Steps() != 2 {
		t.Errorf("Expected 2 steps, got %d", sim.Steps())
	}
}

func TestBridgeSource_Next(t *testing.T) {
	source := NewBridgeSource(New(0.01, 42))
	defer source.Close()

	batch, err := source.Next(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("Expected one reading per tick, got %d", len(batch))
	}
	if batch[0].Kind != sensor.KindVibration {
		t.Errorf("Expected vibration reading, got %s", batch[0].Kind)
	}
}

func TestEnvironmentalSource_Next(t *testing.T) {
	source := NewEnvironmentalSource(New(0.1, 42))
	defer source.Close()

	batch, err := source.Next(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("Expected three readings per tick, got %d", len(batch))
	}
}
