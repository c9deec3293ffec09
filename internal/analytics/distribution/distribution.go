// Package distribution counts sensor readings per value range.
package distribution

import (
	"fmt"
	"math"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// DefaultBins is the number of equal-width ranges for sensors without fixed edges
const DefaultBins = 5

// temperatureEdges are the fixed comfort ranges used for Temperature
var temperatureEdges = []float64{20, 22, 24, 26, 28, 30}

// Bin is one value range. Ranges are right-closed (Lower, Upper]; the
// first range also includes its lower edge.
type Bin struct {
	Label string
	Lower float64
	Upper float64
	Count int
	Share float64 // Percentage of binned readings
}

// Result holds the histogram of one sensor
type Result struct {
	Sensor analytics.Sensor
	Bins   []Bin

	// Binned counts readings that fell in a range, Outside those that did not
	Binned  int
	Outside int
	Missing int
}

// Compute builds the value-range histogram of a sensor. Temperature uses
// fixed 2°C ranges from 20 to 30; other sensors use DefaultBins equal-width
// ranges between the observed min and max.
func Compute(table *analytics.Table, sensor analytics.Sensor) (*Result, error) {
	if err := analytics.CheckSensor(sensor); err != nil {
		return nil, err
	}
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows to bin", analytics.ErrEmptyInput)
	}

	values, err := table.Column(sensor)
	if err != nil {
		return nil, err
	}

	result := &Result{Sensor: sensor}

	var bins []Bin
	if sensor == analytics.SensorTemperature {
		bins = binsFromEdges(temperatureEdges, "%.0f-%.0f°C")
	} else if min, max, ok := analytics.MinMax(values); ok {
		bins = binsFromEdges(EqualWidthEdges(min, max, DefaultBins), "%.1f-%.1f")
	}

	for _, v := range values {
		if math.IsNaN(v) {
			result.Missing++
			continue
		}
		idx := locate(bins, v)
		if idx < 0 {
			result.Outside++
			continue
		}
		bins[idx].Count++
		result.Binned++
	}

	for i := range bins {
		if result.Binned > 0 {
			bins[i].Share = float64(bins[i].Count) / float64(result.Binned) * 100
		}
	}
	result.Bins = bins

	return result, nil
}

// EqualWidthEdges returns bins+1 evenly spaced edges from min to max.
// A degenerate range (min == max) yields a single zero-width bin.
func EqualWidthEdges(min, max float64, bins int) []float64 {
	if bins <= 0 || min == max {
		return []float64{min, max}
	}
	edges := make([]float64, bins+1)
	step := (max - min) / float64(bins)
	for i := range edges {
		edges[i] = min + step*float64(i)
	}
	// Avoid losing the maximum to rounding
	edges[bins] = max
	return edges
}

func binsFromEdges(edges []float64, format string) []Bin {
	bins := make([]Bin, len(edges)-1)
	for i := range bins {
		bins[i] = Bin{
			Label: fmt.Sprintf(format, edges[i], edges[i+1]),
			Lower: edges[i],
			Upper: edges[i+1],
		}
	}
	return bins
}

// locate returns the index of the bin holding v, or -1
func locate(bins []Bin, v float64) int {
	for i, b := range bins {
		if i == 0 && v == b.Lower {
			return 0
		}
		if v > b.Lower && v <= b.Upper {
			return i
		}
	}
	return -1
}
