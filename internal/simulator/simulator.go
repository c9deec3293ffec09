// Package simulator generates a synthetic week of per-minute room-sensor
// readings for the analytics services.
package simulator

import (
	"math/rand"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// Config defines the value ranges of the simulated sensors
type Config struct {
	Seed int64

	// Days to simulate; defaults to the whole week
	Days []analytics.Day

	TemperatureMin float64 // °C
	TemperatureMax float64
	CO2Max         float64 // ppm, lower bound is 0
	HumidityMin    float64 // %
	HumidityMax    float64

	// RoomAreaM2 is the floor area of the simulated room
	RoomAreaM2 float64
}

// DefaultConfig returns the ranges of the reference dashboard dataset
func DefaultConfig() Config {
	return Config{
		Seed:           1,
		Days:           analytics.AllDays,
		TemperatureMin: 20,
		TemperatureMax: 30,
		CO2Max:         1000,
		HumidityMin:    30,
		HumidityMax:    90,
		RoomAreaM2:     50,
	}
}

// Generate builds a table with one observation per minute for every
// configured day. Temperature, CO2 and Humidity are uniform in their range;
// Light and Motion are uniform over {0, 1}. The same seed yields the same
// readings.
func Generate(cfg Config) (*analytics.Table, error) {
	days := cfg.Days
	if len(days) == 0 {
		days = analytics.AllDays
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	observations := make([]analytics.Observation, 0, len(days)*analytics.MinutesPerDay)

	for _, day := range days {
		for minute := 0; minute < analytics.MinutesPerDay; minute++ {
			observations = append(observations, analytics.Observation{
				Day:       day,
				TimeOfDay: analytics.TimeOfDay(minute),
				Values: map[analytics.Sensor]float64{
					analytics.SensorTemperature: uniform(rng, cfg.TemperatureMin, cfg.TemperatureMax),
					analytics.SensorLight:       float64(rng.Intn(2)),
					analytics.SensorMotion:      float64(rng.Intn(2)),
					analytics.SensorCO2:         uniform(rng, 0, cfg.CO2Max),
					analytics.SensorHumidity:    uniform(rng, cfg.HumidityMin, cfg.HumidityMax),
				},
			})
		}
	}

	return analytics.NewTable(observations)
}

// uniform draws from [min, max)
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
