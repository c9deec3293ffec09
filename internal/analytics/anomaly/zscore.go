package anomaly

import (
	"fmt"
	"math"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// Detect computes the z-score of every row for a sensor and flags rows with
// |z| > threshold.
//
// The mean and sample standard deviation are taken over the whole table.
// A constant column (stddev 0) yields z = 0 everywhere and no anomalies.
// Rows with a missing reading get z = 0 and are never flagged.
func Detect(table *analytics.Table, sensor analytics.Sensor, threshold float64) (*Result, error) {
	if err := analytics.CheckSensor(sensor); err != nil {
		return nil, err
	}
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows to analyze", analytics.ErrEmptyInput)
	}
	if threshold <= 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("%w: threshold must be a positive number, got %v",
			analytics.ErrInvalidParameter, threshold)
	}

	values, err := table.Column(sensor)
	if err != nil {
		return nil, err
	}

	mean := analytics.Mean(values)
	stdDev := analytics.SampleStdDev(values)

	result := &Result{
		Sensor:    sensor,
		Threshold: threshold,
		Mean:      mean,
		StdDev:    stdDev,
		Expected: Range{
			Min: mean - threshold*stdDev,
			Max: mean + threshold*stdDev,
		},
		Rows: make([]Row, len(values)),
	}

	for i, v := range values {
		row := Row{
			Index:     i,
			Day:       table.DayAt(i),
			TimeOfDay: table.TimeAt(i),
			Value:     v,
		}

		if math.IsNaN(v) {
			row.Missing = true
			result.Rows[i] = row
			continue
		}

		row.ZScore = CalculateZScore(v, mean, stdDev)
		if math.Abs(row.ZScore) > threshold {
			value := v
			row.IsAnomaly = true
			row.AnomalyValue = &value
			if row.ZScore > 0 {
				row.Type = AnomalyTypeSpike
			} else {
				row.Type = AnomalyTypeDrop
			}
			result.Summary.Anomalies++
		}
		result.Rows[i] = row
	}

	result.Summary.Total = len(values)
	result.Summary.Rate = float64(result.Summary.Anomalies) / float64(result.Summary.Total) * 100

	return result, nil
}

// CalculateZScore calculates Z-Score for a single value given mean and stdDev
func CalculateZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (value - mean) / stdDev
}
