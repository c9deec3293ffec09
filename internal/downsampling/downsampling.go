// Package downsampling reduces a sensor column to a chartable number of
// points while keeping its visual shape.
package downsampling

import (
	"fmt"
	"math"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// Mode represents the downsampling mode
type Mode string

const (
	// ModeNone means no downsampling
	ModeNone Mode = "none"
	// ModeAuto picks an algorithm from the shape of the data
	ModeAuto Mode = "auto"
	// ModeLTTB uses Largest-Triangle-Three-Buckets
	ModeLTTB Mode = "lttb"
	// ModeMinMax keeps min and max values per bucket (preserves peaks/spikes)
	ModeMinMax Mode = "minmax"
	// ModeAverage uses average value per bucket
	ModeAverage Mode = "avg"
	// ModeM4 keeps First, Min, Max, Last per bucket (4 points per bucket)
	ModeM4 Mode = "m4"
)

// DefaultThreshold is the target point count when none is given
const DefaultThreshold = 1000

// MinLTTBThreshold is the minimum threshold for LTTB algorithm
const MinLTTBThreshold = 100

// ValidModes returns all valid downsampling modes
func ValidModes() []Mode {
	return []Mode{ModeNone, ModeAuto, ModeLTTB, ModeMinMax, ModeAverage, ModeM4}
}

// ParseMode resolves a mode name; an empty string selects ModeAuto
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	for _, m := range ValidModes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown downsampling mode %q", analytics.ErrInvalidParameter, s)
}

// Point is one chart point. Index is the row of the source column.
type Point struct {
	Index int
	Value float64
}

// Result is a downsampled series
type Result struct {
	// Mode is the algorithm applied, ModeNone when the series already fit
	Mode Mode

	// Readings counts the non-missing input values
	Readings int

	Points []Point
}

// Downsample reduces values to about threshold points. Missing readings
// (NaN) are dropped first. A threshold <= 0 selects DefaultThreshold.
// ModeAverage returns bucket means placed at the middle row of each bucket;
// every other mode returns original readings.
func Downsample(values []float64, mode Mode, threshold int) (*Result, error) {
	points := make([]Point, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			points = append(points, Point{Index: i, Value: v})
		}
	}

	result := &Result{Mode: ModeNone, Readings: len(points), Points: points}

	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if threshold < 2 {
		threshold = 2
	}
	if mode == ModeNone || len(points) <= threshold {
		return result, nil
	}

	if mode == ModeAuto {
		mode = detectBestAlgorithm(points)
	}

	var selected []int
	switch mode {
	case ModeLTTB:
		selected = lttb(points, max(threshold, MinLTTBThreshold))
	case ModeMinMax:
		selected = minmax(points, threshold)
	case ModeM4:
		selected = m4(points, threshold)
	case ModeAverage:
		result.Mode = mode
		result.Points = average(points, threshold)
		return result, nil
	default:
		return nil, fmt.Errorf("%w: unknown downsampling mode %q", analytics.ErrInvalidParameter, mode)
	}

	result.Mode = mode
	result.Points = make([]Point, len(selected))
	for i, pos := range selected {
		result.Points[i] = points[pos]
	}
	return result, nil
}

// detectBestAlgorithm selects an algorithm from the data's spikiness:
// MinMax keeps the peaks of spiky data, M4 balances medium variance and
// LTTB gives the best visual result on smooth data
func detectBestAlgorithm(points []Point) Mode {
	spikiness := calculateSpikiness(points)
	switch {
	case spikiness > 0.2:
		return ModeMinMax
	case spikiness > 0.1:
		return ModeM4
	default:
		return ModeLTTB
	}
}

// calculateSpikiness returns a value between 0 (smooth) and 1 (very spiky),
// combining the share of readings beyond 2 standard deviations with the share
// of steps larger than one standard deviation
func calculateSpikiness(points []Point) float64 {
	if len(points) < 10 {
		return 0
	}

	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	mean := sum / float64(len(points))

	variance := 0.0
	for _, p := range points {
		diff := p.Value - mean
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(len(points)))
	if stdDev == 0 {
		return 0
	}

	spikeCount := 0
	stepCount := 0
	for i, p := range points {
		if math.Abs(p.Value-mean) > 2*stdDev {
			spikeCount++
		}
		if i > 0 && math.Abs(p.Value-points[i-1].Value) > stdDev {
			stepCount++
		}
	}

	absolute := float64(spikeCount) / float64(len(points))
	steps := float64(stepCount) / float64(len(points)-1)

	// Steps weigh more, they are what the eye notices
	return math.Min((absolute+1.5*steps)/2.5, 1)
}

// lttb implements Largest-Triangle-Three-Buckets and returns positions in data.
// The row index is the x axis, so gaps left by missing readings keep their width.
func lttb(data []Point, threshold int) []int {
	if len(data) <= threshold {
		return allPositions(len(data))
	}

	sampled := make([]int, 0, threshold)
	sampled = append(sampled, 0)

	// Bucket size (excluding first and last points)
	bucketSize := float64(len(data)-2) / float64(threshold-2)

	// Position of the point selected in the previous bucket
	a := 0

	for i := 0; i < threshold-2; i++ {
		// Average point of the next bucket
		avgStart := int(math.Floor(float64(i+1)*bucketSize)) + 1
		avgEnd := min(int(math.Floor(float64(i+2)*bucketSize))+1, len(data))

		avgX, avgY := 0.0, 0.0
		for j := avgStart; j < avgEnd; j++ {
			avgX += float64(data[j].Index)
			avgY += data[j].Value
		}
		n := float64(avgEnd - avgStart)
		avgX /= n
		avgY /= n

		rangeStart := int(math.Floor(float64(i)*bucketSize)) + 1
		rangeEnd := int(math.Floor(float64(i+1)*bucketSize)) + 1

		ax := float64(data[a].Index)
		ay := data[a].Value

		maxArea := -1.0
		maxAreaPos := rangeStart
		for j := rangeStart; j < rangeEnd; j++ {
			area := math.Abs((ax-avgX)*(data[j].Value-ay)-(ax-float64(data[j].Index))*(avgY-ay)) * 0.5
			if area > maxArea {
				maxArea = area
				maxAreaPos = j
			}
		}

		sampled = append(sampled, maxAreaPos)
		a = maxAreaPos
	}

	return append(sampled, len(data)-1)
}

// minmax keeps the min and max of each of threshold/2 buckets, in row order
func minmax(data []Point, threshold int) []int {
	if len(data) <= threshold {
		return allPositions(len(data))
	}

	numBuckets := max(threshold/2, 1)
	sampled := make([]int, 0, numBuckets*2)

	eachBucket(len(data), numBuckets, func(start, end int) {
		minPos, maxPos := extremes(data, start, end)
		switch {
		case minPos == maxPos:
			sampled = append(sampled, minPos)
		case minPos < maxPos:
			sampled = append(sampled, minPos, maxPos)
		default:
			sampled = append(sampled, maxPos, minPos)
		}
	})

	return sampled
}

// m4 keeps first, min, max and last of each of threshold/4 buckets, in row order
func m4(data []Point, threshold int) []int {
	if len(data) <= threshold {
		return allPositions(len(data))
	}

	numBuckets := max(threshold/4, 1)
	sampled := make([]int, 0, numBuckets*4)

	eachBucket(len(data), numBuckets, func(start, end int) {
		first, last := start, end-1
		minPos, maxPos := extremes(data, start, end)
		if minPos > maxPos {
			minPos, maxPos = maxPos, minPos
		}

		prev := -1
		for _, pos := range []int{first, minPos, maxPos, last} {
			// Positions are non-decreasing, so skipping repeats keeps them unique
			if pos != prev {
				sampled = append(sampled, pos)
				prev = pos
			}
		}
	})

	return sampled
}

// average returns the mean of each of threshold buckets
func average(data []Point, threshold int) []Point {
	out := make([]Point, 0, threshold)

	eachBucket(len(data), threshold, func(start, end int) {
		sum := 0.0
		for j := start; j < end; j++ {
			sum += data[j].Value
		}
		mid := start + (end-start)/2
		out = append(out, Point{Index: data[mid].Index, Value: sum / float64(end-start)})
	})

	return out
}

// eachBucket splits n positions into numBuckets contiguous ranges and calls
// fn for every non-empty one
func eachBucket(n, numBuckets int, fn func(start, end int)) {
	bucketSize := float64(n) / float64(numBuckets)
	for i := 0; i < numBuckets; i++ {
		start := int(float64(i) * bucketSize)
		end := min(int(float64(i+1)*bucketSize), n)
		if start < end {
			fn(start, end)
		}
	}
}

func extremes(data []Point, start, end int) (minPos, maxPos int) {
	minPos, maxPos = start, start
	for j := start + 1; j < end; j++ {
		if data[j].Value < data[minPos].Value {
			minPos = j
		}
		if data[j].Value > data[maxPos].Value {
			maxPos = j
		}
	}
	return minPos, maxPos
}

func allPositions(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return positions
}
