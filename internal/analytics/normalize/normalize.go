// Package normalize rescales several sensor series onto a common 0-100 range
// so they can be compared side by side.
package normalize

import (
	"fmt"
	"math"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// Scale is the upper bound of normalized values
const Scale = 100.0

// Series applies min-max scaling to every series independently:
// (v - min) / (max - min) * 100.
//
// A constant series (max == min) is returned unscaled. NaN entries are
// ignored when finding min and max and stay NaN. Bucket alignment across
// series is the caller's responsibility. Input slices are never modified.
func Series(series map[analytics.Sensor][]float64) (map[analytics.Sensor][]float64, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no series to normalize", analytics.ErrEmptyInput)
	}

	out := make(map[analytics.Sensor][]float64, len(series))
	for sensor, values := range series {
		if err := analytics.CheckSensor(sensor); err != nil {
			return nil, err
		}
		out[sensor] = MinMax(values)
	}
	return out, nil
}

// MinMax scales one series onto [0, 100]; see Series
func MinMax(values []float64) []float64 {
	scaled := make([]float64, len(values))
	min, max, ok := analytics.MinMax(values)
	if !ok || max == min {
		copy(scaled, values)
		return scaled
	}

	span := max - min
	for i, v := range values {
		if math.IsNaN(v) {
			scaled[i] = v
			continue
		}
		scaled[i] = (v - min) / span * Scale
	}
	return scaled
}
