// Package aggregation groups table rows into buckets and computes per-bucket
// statistics for a sensor.
package aggregation

import (
	"fmt"
	"math"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// BucketKey selects the row attribute used to group observations
type BucketKey string

const (
	// BucketTimeOfDay groups by the exact "HH:MM" label. Across several days
	// this mixes every selected day into one bucket per minute.
	BucketTimeOfDay BucketKey = "time_of_day"

	// BucketHour groups by the "HH:00" label of each row
	BucketHour BucketKey = "hour"

	// BucketDay groups by weekday label
	BucketDay BucketKey = "day"
)

// ParseBucketKey resolves a bucket key; an empty string selects BucketTimeOfDay
func ParseBucketKey(s string) (BucketKey, error) {
	switch BucketKey(s) {
	case "", BucketTimeOfDay:
		return BucketTimeOfDay, nil
	case BucketHour, BucketDay:
		return BucketKey(s), nil
	default:
		return "", fmt.Errorf("%w: unknown bucket key %q", analytics.ErrInvalidParameter, s)
	}
}

// Bucket holds the statistics of one group of rows
type Bucket struct {
	Key   string
	Count int     // Rows with a reading for the sensor
	Sum   float64 // Sum of readings
	Mean  float64 // NaN when Count is 0
	Min   float64 // NaN when Count is 0
	Max   float64 // NaN when Count is 0
}

// addValue adds a single reading to the bucket
func (b *Bucket) addValue(value float64) {
	if b.Count == 0 {
		b.Min = value
		b.Max = value
	} else {
		if value < b.Min {
			b.Min = value
		}
		if value > b.Max {
			b.Max = value
		}
	}
	b.Count++
	b.Sum += value
	b.Mean = b.Sum / float64(b.Count)
}

// Aggregate groups the table rows by key and computes the mean of sensor
// within each group. Buckets are returned in first-encountered order;
// missing readings are skipped.
func Aggregate(table *analytics.Table, sensor analytics.Sensor, key BucketKey) ([]Bucket, error) {
	if err := analytics.CheckSensor(sensor); err != nil {
		return nil, err
	}
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows to aggregate", analytics.ErrEmptyInput)
	}

	label, err := labelFunc(table, key)
	if err != nil {
		return nil, err
	}

	values, err := table.Column(sensor)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]int)
	buckets := make([]Bucket, 0)
	for i, v := range values {
		k := label(i)
		pos, exists := positions[k]
		if !exists {
			pos = len(buckets)
			positions[k] = pos
			buckets = append(buckets, Bucket{
				Key:  k,
				Mean: math.NaN(),
				Min:  math.NaN(),
				Max:  math.NaN(),
			})
		}
		if math.IsNaN(v) {
			continue
		}
		buckets[pos].addValue(v)
	}

	return buckets, nil
}

// labelFunc returns the bucket label extractor for a key
func labelFunc(table *analytics.Table, key BucketKey) (func(int) string, error) {
	switch key {
	case BucketTimeOfDay, "":
		return table.TimeAt, nil
	case BucketHour:
		return table.HourAt, nil
	case BucketDay:
		return func(i int) string { return string(table.DayAt(i)) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown bucket key %q", analytics.ErrInvalidParameter, key)
	}
}

// Means extracts the per-bucket means in bucket order
func Means(buckets []Bucket) []float64 {
	means := make([]float64, len(buckets))
	for i, b := range buckets {
		means[i] = b.Mean
	}
	return means
}

// Keys extracts the bucket labels in bucket order
func Keys(buckets []Bucket) []string {
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key
	}
	return keys
}
