package aggregation

import (
	"context"
	"sync"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// DefaultMaxWorkers bounds concurrent per-sensor aggregations when the
// caller does not configure a limit
const DefaultMaxWorkers = 4

// sensorResult is the outcome of aggregating one sensor
type sensorResult struct {
	sensor  analytics.Sensor
	buckets []Bucket
	err     error
}

// AggregateMany aggregates several sensors concurrently over the same table.
// At most maxWorkers aggregations run at once. The first error is returned.
func AggregateMany(
	ctx context.Context,
	table *analytics.Table,
	sensors []analytics.Sensor,
	key BucketKey,
	maxWorkers int,
) (map[analytics.Sensor][]Bucket, error) {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}

	// Semaphore to limit active workers
	semaphore := make(chan struct{}, maxWorkers)
	results := make(chan sensorResult, len(sensors))

	var wg sync.WaitGroup
	for _, s := range sensors {
		wg.Add(1)
		go func(s analytics.Sensor) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results <- sensorResult{sensor: s, err: ctx.Err()}
				return
			}
			defer func() { <-semaphore }()

			buckets, err := Aggregate(table, s, key)
			results <- sensorResult{sensor: s, buckets: buckets, err: err}
		}(s)
	}

	wg.Wait()
	close(results)

	out := make(map[analytics.Sensor][]Bucket, len(sensors))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		out[r.sensor] = r.buckets
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
