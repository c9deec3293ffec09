package analytics

import "math"

// Mean calculates the arithmetic mean, skipping NaN values.
// Returns NaN when no value is present.
func Mean(values []float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// SampleStdDev calculates the sample standard deviation (n-1 denominator),
// skipping NaN values. Returns 0 when fewer than two values are present.
func SampleStdDev(values []float64) float64 {
	mean := Mean(values)
	sumSq := 0.0
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		diff := v - mean
		sumSq += diff * diff
		count++
	}
	if count < 2 {
		return 0
	}
	return math.Sqrt(sumSq / float64(count-1))
}

// MinMax returns the smallest and largest non-NaN values.
// ok is false when the slice holds no such value.
func MinMax(values []float64) (min, max float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}
