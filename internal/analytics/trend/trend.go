// Package trend classifies the local direction of a sensor series by
// comparing a trailing rolling mean with the previous raw reading.
package trend

import (
	"fmt"
	"math"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// Label is the trend direction of a row
type Label string

const (
	Rising  Label = "Rising"
	Falling Label = "Falling"
	Stable  Label = "Stable"
)

// AllLabels lists the trend labels in display order
var AllLabels = []Label{Rising, Falling, Stable}

// MinWindow is the smallest rolling window that can be classified
const MinWindow = 2

// Row is the per-observation classification output, aligned with the input table
type Row struct {
	Index     int
	Day       analytics.Day
	TimeOfDay string
	Value     float64 // NaN for a missing reading

	// RollingMean is nil until the first complete window, or when the
	// window contains a missing reading
	RollingMean *float64

	Trend Label
}

// Result is the outcome of one classification run
type Result struct {
	Sensor       analytics.Sensor
	Window       int
	Rows         []Row
	Distribution map[Label]int
}

// Classify computes a trailing rolling mean over window rows and labels each
// row by comparing rollingMean[i] with value[i-1]:
// Rising if greater, Falling if smaller, Stable otherwise.
// Row 0 and rows without a rolling mean are Stable.
func Classify(table *analytics.Table, sensor analytics.Sensor, window int) (*Result, error) {
	if err := analytics.CheckSensor(sensor); err != nil {
		return nil, err
	}
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows to analyze", analytics.ErrEmptyInput)
	}
	if window < MinWindow {
		return nil, fmt.Errorf("%w: window must be at least %d, got %d",
			analytics.ErrInvalidParameter, MinWindow, window)
	}
	if window > table.Len() {
		return nil, fmt.Errorf("%w: window %d exceeds %d rows, no complete window",
			analytics.ErrInvalidParameter, window, table.Len())
	}

	values, err := table.Column(sensor)
	if err != nil {
		return nil, err
	}

	rolling := RollingMean(values, window)

	result := &Result{
		Sensor:       sensor,
		Window:       window,
		Rows:         make([]Row, len(values)),
		Distribution: make(map[Label]int, len(AllLabels)),
	}
	for _, l := range AllLabels {
		result.Distribution[l] = 0
	}

	for i, v := range values {
		row := Row{
			Index:     i,
			Day:       table.DayAt(i),
			TimeOfDay: table.TimeAt(i),
			Value:     v,
			Trend:     Stable,
		}
		if !math.IsNaN(rolling[i]) {
			mean := rolling[i]
			row.RollingMean = &mean
			if i > 0 {
				row.Trend = classify(mean, values[i-1])
			}
		}
		result.Rows[i] = row
		result.Distribution[row.Trend]++
	}

	return result, nil
}

// classify compares a rolling mean with the previous raw reading.
// Comparisons against a missing reading are Stable.
func classify(rollingMean, previous float64) Label {
	switch {
	case rollingMean > previous:
		return Rising
	case rollingMean < previous:
		return Falling
	default:
		return Stable
	}
}

// RollingMean returns the trailing mean over window values ending at each
// index. Entries before the first complete window, and windows containing a
// NaN, are NaN. Each window is summed afresh, O(n·window).
func RollingMean(values []float64, window int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		if window <= 0 || i < window-1 {
			result[i] = math.NaN()
			continue
		}

		sum := 0.0
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		// NaN propagates through the sum
		result[i] = sum / float64(window)
	}
	return result
}
