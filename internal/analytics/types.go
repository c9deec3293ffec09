// Package analytics provides the common data model for room-sensor analytics:
// sensors, weekdays, observations and the read-only time-series table that the
// aggregation, anomaly, trend and normalize packages operate on.
package analytics

import (
	"fmt"
	"strings"
)

// Sensor identifies one of the room sensors
type Sensor string

const (
	SensorTemperature Sensor = "Temperature" // °C, continuous
	SensorLight       Sensor = "Light"       // binary 0/1
	SensorMotion      Sensor = "Motion"      // binary 0/1
	SensorCO2         Sensor = "CO2"         // ppm, continuous
	SensorHumidity    Sensor = "Humidity"    // %, continuous
)

// AllSensors lists the recognized sensors in display order
var AllSensors = []Sensor{
	SensorTemperature,
	SensorLight,
	SensorMotion,
	SensorCO2,
	SensorHumidity,
}

var sensorUnits = map[Sensor]string{
	SensorTemperature: "°C",
	SensorLight:       "on/off",
	SensorMotion:      "on/off",
	SensorCO2:         "ppm",
	SensorHumidity:    "%",
}

// ParseSensor resolves a sensor name case-insensitively
func ParseSensor(name string) (Sensor, error) {
	trimmed := strings.TrimSpace(name)
	for _, s := range AllSensors {
		if strings.EqualFold(string(s), trimmed) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSensor, name)
}

// Valid reports whether s is one of the recognized sensors
func (s Sensor) Valid() bool {
	_, ok := sensorUnits[s]
	return ok
}

// Unit returns the measurement unit of the sensor
func (s Sensor) Unit() string {
	return sensorUnits[s]
}

// Binary reports whether the sensor only reports 0 or 1
func (s Sensor) Binary() bool {
	return s == SensorLight || s == SensorMotion
}

func (s Sensor) String() string {
	return string(s)
}

// CheckSensor returns ErrUnknownSensor for unrecognized sensors
func CheckSensor(s Sensor) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSensor, string(s))
	}
	return nil
}

// Day is a weekday label
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// AllDays lists the weekdays in week order, starting on Monday
var AllDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDay resolves a weekday label case-insensitively
func ParseDay(label string) (Day, error) {
	trimmed := strings.TrimSpace(label)
	for _, d := range AllDays {
		if strings.EqualFold(string(d), trimmed) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown day %q", ErrInvalidParameter, label)
}

// ParseDays resolves a list of weekday labels, dropping duplicates
func ParseDays(labels []string) ([]Day, error) {
	seen := make(map[Day]bool, len(labels))
	days := make([]Day, 0, len(labels))
	for _, label := range labels {
		d, err := ParseDay(label)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return days, nil
}

// Index returns the position of the day in the week (Monday = 0), or -1
func (d Day) Index() int {
	for i, day := range AllDays {
		if day == d {
			return i
		}
	}
	return -1
}

func (d Day) String() string {
	return string(d)
}

// Observation is one per-minute row of sensor readings.
// A sensor absent from Values is a missing reading.
type Observation struct {
	Day       Day
	TimeOfDay string // "HH:MM"
	Values    map[Sensor]float64
}

// Reading returns the value of a sensor and whether it is present
func (o Observation) Reading(s Sensor) (float64, bool) {
	v, ok := o.Values[s]
	return v, ok
}

// Hour returns the "HH:00" label of the observation's time of day
func (o Observation) Hour() string {
	if len(o.TimeOfDay) < 2 {
		return o.TimeOfDay
	}
	return o.TimeOfDay[:2] + ":00"
}
