// Package anomaly flags statistical outliers in a sensor column using the
// z-score of every row against the whole table.
package anomaly

import (
	"github.com/soltixdb/roomsense/internal/analytics"
)

// AnomalyType represents the direction of a flagged reading
type AnomalyType string

const (
	AnomalyTypeNone  AnomalyType = ""
	AnomalyTypeSpike AnomalyType = "spike" // Above the upper threshold
	AnomalyTypeDrop  AnomalyType = "drop"  // Below the lower threshold
)

// Row is the per-observation detection output, aligned with the input table
type Row struct {
	Index     int
	Day       analytics.Day
	TimeOfDay string
	Value     float64 // NaN when Missing
	ZScore    float64
	IsAnomaly bool
	Type      AnomalyType

	// AnomalyValue repeats Value for anomalous rows and is nil otherwise
	AnomalyValue *float64

	// Missing marks rows without a reading for the sensor
	Missing bool
}

// Summary counts flagged rows
type Summary struct {
	Total     int
	Anomalies int
	Rate      float64 // Percentage of Total
}

// Range represents expected value range
type Range struct {
	Min float64
	Max float64
}

// Result is the outcome of one detection run
type Result struct {
	Sensor    analytics.Sensor
	Threshold float64
	Mean      float64
	StdDev    float64

	// Expected is mean ± threshold·stddev, the band outside of which rows are flagged
	Expected Range

	Rows    []Row
	Summary Summary
}

// Anomalies returns only the flagged rows
func (r *Result) Anomalies() []Row {
	var flagged []Row
	for _, row := range r.Rows {
		if row.IsAnomaly {
			flagged = append(flagged, row)
		}
	}
	return flagged
}
