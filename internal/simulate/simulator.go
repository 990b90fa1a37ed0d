// Package simulate generates synthetic sensor readings for sessions run
// without hardware. Each sensor kind has a profile combining a base value,
// a linear trend, a seasonal sine component, uniform noise and occasional
// injected anomalies, with kind-specific range clamping.
package simulate

import (
	"math"
	"math/rand"
	"time"

	"sensorlog/internal/sensor"
)

// Profile describes the synthetic signal of one sensor kind.
type Profile struct {
	BaseValue         float64
	NoiseAmplitude    float64
	TrendRate         float64
	SeasonalAmplitude float64
	SeasonalPeriod    float64
	// AnomalyProbability is the percent chance per sample of an injected
	// anomaly spike.
	AnomalyProbability int
	AnomalyMagnitude   float64
}

// metadata carries the unit and description for each sensor kind.
var metadata = map[sensor.Kind]struct {
	unit        string
	description string
}{
	sensor.KindTemperature: {"°C", "Temperature"},
	sensor.KindVibration:   {"m/s²", "Vibration Amplitude"},
	sensor.KindStrain:      {"µε", "Strain"},
	sensor.KindHumidity:    {"%", "Relative Humidity"},
	sensor.KindPressure:    {"hPa", "Atmospheric Pressure"},
	sensor.KindAccelX:      {"m/s²", "Acceleration X"},
	sensor.KindAccelY:      {"m/s²", "Acceleration Y"},
	sensor.KindAccelZ:      {"m/s²", "Acceleration Z"},
}

// DefaultProfiles returns the standard signal profile for each kind:
// daily temperature cycles, a low vibration floor, gravity on the Z axis.
func DefaultProfiles() map[sensor.Kind]Profile {
	return map[sensor.Kind]Profile{
		sensor.KindTemperature: {BaseValue: 20.0, NoiseAmplitude: 2.0, TrendRate: 0.001, SeasonalAmplitude: 5.0, SeasonalPeriod: 86400.0, AnomalyProbability: 2, AnomalyMagnitude: 15.0},
		sensor.KindVibration:   {BaseValue: 0.1, NoiseAmplitude: 0.05, SeasonalAmplitude: 0.02, SeasonalPeriod: 1.0, AnomalyProbability: 5, AnomalyMagnitude: 2.0},
		sensor.KindStrain:      {BaseValue: 100.0, NoiseAmplitude: 10.0, TrendRate: 0.002, SeasonalAmplitude: 20.0, SeasonalPeriod: 3600.0, AnomalyProbability: 3, AnomalyMagnitude: 50.0},
		sensor.KindHumidity:    {BaseValue: 50.0, NoiseAmplitude: 5.0, TrendRate: 0.001, SeasonalAmplitude: 10.0, SeasonalPeriod: 43200.0, AnomalyProbability: 1, AnomalyMagnitude: 20.0},
		sensor.KindPressure:    {BaseValue: 1013.25, NoiseAmplitude: 2.0, SeasonalAmplitude: 5.0, SeasonalPeriod: 21600.0, AnomalyProbability: 1, AnomalyMagnitude: 30.0},
		sensor.KindAccelX:      {BaseValue: 0.0, NoiseAmplitude: 0.1, SeasonalAmplitude: 0.05, SeasonalPeriod: 0.1, AnomalyProbability: 8, AnomalyMagnitude: 5.0},
		sensor.KindAccelY:      {BaseValue: 0.0, NoiseAmplitude: 0.1, SeasonalAmplitude: 0.05, SeasonalPeriod: 0.1, AnomalyProbability: 8, AnomalyMagnitude: 5.0},
		sensor.KindAccelZ:      {BaseValue: 9.81, NoiseAmplitude: 0.1, SeasonalAmplitude: 0.05, SeasonalPeriod: 0.1, AnomalyProbability: 8, AnomalyMagnitude: 2.0},
	}
}

// Simulator produces synthetic readings. It advances one step per generated
// reading; the step counter drives the trend and seasonal components.
// A Simulator is owned by a single goroutine.
type Simulator struct {
	profiles map[sensor.Kind]Profile
	step     uint64
	// stepSeconds is the simulated spacing between steps.
	stepSeconds float64
	rng         *rand.Rand
	now         func() time.Time
}

// New creates a simulator with the default profiles and the given sample
// spacing. The seed makes runs reproducible; use time-derived seeds for
// live sessions.
func New(stepSeconds float64, seed int64) *Simulator {
	return &Simulator{
		profiles:    DefaultProfiles(),
		stepSeconds: stepSeconds,
		rng:         rand.New(rand.NewSource(seed)),
		now:         time.Now,
	}
}

// Configure replaces the profile for one kind.
func (s *Simulator) Configure(kind sensor.Kind, profile Profile) {
	s.profiles[kind] = profile
}

// Steps returns how many readings have been generated.
func (s *Simulator) Steps() uint64 {
	return s.step
}

// Generate produces one reading for the kind, advancing the simulation one
// step.
func (s *Simulator) Generate(kind sensor.Kind) sensor.Reading {
	meta := metadata[kind]
	reading := sensor.Reading{
		Kind:        kind,
		Unit:        meta.unit,
		Description: meta.description,
		Timestamp:   s.now(),
	}

	profile, ok := s.profiles[kind]
	if !ok {
		reading.Unit = "N/A"
		reading.Description = "Invalid sensor type"
		return reading
	}

	elapsed := float64(s.step) * s.stepSeconds

	value := profile.BaseValue + profile.TrendRate*elapsed
	value += s.seasonal(profile, elapsed)
	value += s.noise(profile.NoiseAmplitude)
	value += s.anomaly(profile)

	reading.Value = clampKind(kind, value)
	s.step++
	return reading
}

// BridgeVibration produces a vibration reading layered with simulated
// traffic loading and wind effects, clamped to realistic bridge levels.
func (s *Simulator) BridgeVibration() sensor.Reading {
	reading := s.Generate(sensor.KindVibration)

	elapsed := float64(s.step) * s.stepSeconds

	// Traffic loading: slowly wandering frequency and amplitude.
	trafficFrequency := 0.1 + 0.05*math.Sin(elapsed*0.01)
	trafficAmplitude := 0.02 + 0.01*math.Sin(elapsed*0.005)
	traffic := trafficAmplitude * math.Sin(2*math.Pi*trafficFrequency*elapsed)

	// Wind: lower frequency background sway.
	wind := 0.005 * math.Sin(2*math.Pi*0.02*elapsed)

	reading.Value = clamp(reading.Value+math.Abs(traffic+wind), 0.0, 1.0)
	reading.Description = "Bridge Vibration"
	return reading
}

// EnvironmentalSet produces one correlated temperature/humidity/pressure
// triple. Humidity drops when it is hot and rises when it is cold.
func (s *Simulator) EnvironmentalSet() []sensor.Reading {
	readings := []sensor.Reading{
		s.Generate(sensor.KindTemperature),
		s.Generate(sensor.KindHumidity),
		s.Generate(sensor.KindPressure),
	}

	switch temp := readings[0].Value; {
	case temp > 25.0:
		readings[1].Value *= 0.8
	case temp < 10.0:
		readings[1].Value *= 1.2
	}
	readings[1].Value = clamp(readings[1].Value, 0.0, 100.0)

	return readings
}

func (s *Simulator) seasonal(profile Profile, elapsed float64) float64 {
	if profile.SeasonalPeriod == 0 {
		return 0
	}
	return profile.SeasonalAmplitude * math.Sin(2*math.Pi*elapsed/profile.SeasonalPeriod)
}

func (s *Simulator) noise(amplitude float64) float64 {
	return amplitude * (2*s.rng.Float64() - 1)
}

func (s *Simulator) anomaly(profile Profile) float64 {
	if profile.AnomalyProbability <= 0 || s.rng.Intn(100) >= profile.AnomalyProbability {
		return 0
	}
	if s.rng.Intn(2) == 0 {
		return profile.AnomalyMagnitude
	}
	return -profile.AnomalyMagnitude
}

// clampKind applies the physical range of each sensor kind.
func clampKind(kind sensor.Kind, value float64) float64 {
	switch kind {
	case sensor.KindTemperature:
		return clamp(value, -50.0, 80.0)
	case sensor.KindHumidity:
		return clamp(value, 0.0, 100.0)
	case sensor.KindPressure:
		return clamp(value, 800.0, 1200.0)
	case sensor.KindVibration:
		return math.Abs(value)
	default:
		return value
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
