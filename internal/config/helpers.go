package config

import (
	"fmt"
	"math"
	"net"
	"strconv"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// Sensor returns the parsed default sensor
func (c *AnalysisConfig) Sensor() analytics.Sensor {
	s, err := analytics.ParseSensor(c.DefaultSensor)
	if err != nil {
		return analytics.SensorTemperature
	}
	return s
}

// Days returns the parsed default day selection, or the whole week when
// the configured selection is unusable
func (c *AnalysisConfig) Days() []analytics.Day {
	days, err := analytics.ParseDays(c.SelectedDays)
	if err != nil || len(days) == 0 {
		return analytics.AllDays
	}
	return days
}

// CheckThreshold validates an anomaly threshold against the dashboard bounds
func CheckThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < MinAnomalyThreshold || threshold > MaxAnomalyThreshold {
		return fmt.Errorf("%w: threshold %g outside [%.1f, %.1f]",
			analytics.ErrInvalidParameter, threshold, MinAnomalyThreshold, MaxAnomalyThreshold)
	}
	return nil
}

// CheckWindow validates a trend window against the dashboard bounds
func CheckWindow(window int) error {
	if window < MinTrendWindow || window > MaxTrendWindow {
		return fmt.Errorf("%w: window %d outside [%d, %d]",
			analytics.ErrInvalidParameter, window, MinTrendWindow, MaxTrendWindow)
	}
	return nil
}
