package downsampling

import (
	"errors"
	"math"
	"testing"

	"github.com/soltixdb/roomsense/internal/analytics"
)

func linear(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	return values
}

// checkRowOrder verifies chart points are strictly increasing by row
func checkRowOrder(t *testing.T, points []Point) {
	t.Helper()
	for i := 1; i < len(points); i++ {
		if points[i].Index <= points[i-1].Index {
			t.Fatalf("points out of order at %d: %d after %d", i, points[i].Index, points[i-1].Index)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		mode  Mode
		valid bool
	}{
		{"", ModeAuto, true},
		{"none", ModeNone, true},
		{"auto", ModeAuto, true},
		{"lttb", ModeLTTB, true},
		{"minmax", ModeMinMax, true},
		{"avg", ModeAverage, true},
		{"m4", ModeM4, true},
		{"LTTB", "", false},
		{"invalid", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if mode != tt.mode {
					t.Errorf("ParseMode(%q) = %s, want %s", tt.input, mode, tt.mode)
				}
				return
			}
			if !errors.Is(err, analytics.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestDownsample_None(t *testing.T) {
	result, err := Downsample(linear(5000), ModeNone, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != ModeNone {
		t.Errorf("expected mode none, got %s", result.Mode)
	}
	if len(result.Points) != 5000 {
		t.Errorf("expected 5000 points, got %d", len(result.Points))
	}
}

func TestDownsample_BelowThreshold(t *testing.T) {
	for _, mode := range []Mode{ModeAuto, ModeLTTB, ModeMinMax, ModeAverage, ModeM4} {
		t.Run(string(mode), func(t *testing.T) {
			result, err := Downsample([]float64{1, 2, 3}, mode, DefaultThreshold)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Mode != ModeNone {
				t.Errorf("expected no downsampling, got %s", result.Mode)
			}
			if len(result.Points) != 3 {
				t.Errorf("expected 3 points, got %d", len(result.Points))
			}
		})
	}
}

func TestDownsample_DefaultThreshold(t *testing.T) {
	result, err := Downsample(linear(7*analytics.MinutesPerDay), ModeLTTB, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) != DefaultThreshold {
		t.Errorf("expected %d points, got %d", DefaultThreshold, len(result.Points))
	}
}

func TestDownsample_MissingReadingsDropped(t *testing.T) {
	values := []float64{1, math.NaN(), 3, math.NaN(), 5}

	result, err := Downsample(values, ModeAuto, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Readings != 3 {
		t.Errorf("expected 3 readings, got %d", result.Readings)
	}

	want := []Point{{0, 1}, {2, 3}, {4, 5}}
	if len(result.Points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(result.Points))
	}
	for i, p := range want {
		if result.Points[i] != p {
			t.Errorf("point %d = %+v, want %+v", i, result.Points[i], p)
		}
	}
}

func TestDownsample_EmptyData(t *testing.T) {
	result, err := Downsample(nil, ModeAuto, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) != 0 || result.Readings != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestDownsample_LTTB(t *testing.T) {
	values := linear(500)

	result, err := Downsample(values, ModeLTTB, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != ModeLTTB {
		t.Errorf("expected mode lttb, got %s", result.Mode)
	}
	if len(result.Points) != 100 {
		t.Fatalf("expected 100 points, got %d", len(result.Points))
	}

	// First and last points are always kept
	if result.Points[0].Index != 0 {
		t.Errorf("expected first row 0, got %d", result.Points[0].Index)
	}
	if last := result.Points[len(result.Points)-1]; last.Index != 499 || last.Value != 499 {
		t.Errorf("expected last point {499 499}, got %+v", last)
	}
	checkRowOrder(t, result.Points)
}

func TestDownsample_LTTBRaisesSmallThreshold(t *testing.T) {
	result, err := Downsample(linear(500), ModeLTTB, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) != MinLTTBThreshold {
		t.Errorf("expected %d points, got %d", MinLTTBThreshold, len(result.Points))
	}
}

func TestDownsample_MinMax(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = 10
	}
	values[123] = 1000 // peak
	values[777] = -500 // valley

	result, err := Downsample(values, ModeMinMax, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) > 100 {
		t.Errorf("expected at most 100 points, got %d", len(result.Points))
	}

	var hasPeak, hasValley bool
	for _, p := range result.Points {
		hasPeak = hasPeak || p.Value == 1000
		hasValley = hasValley || p.Value == -500
	}
	if !hasPeak || !hasValley {
		t.Errorf("minmax must keep peak (%v) and valley (%v)", hasPeak, hasValley)
	}
	checkRowOrder(t, result.Points)
}

func TestDownsample_Average(t *testing.T) {
	result, err := Downsample(linear(1000), ModeAverage, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) != 100 {
		t.Fatalf("expected 100 points, got %d", len(result.Points))
	}

	// First bucket holds rows 0..9
	first := result.Points[0]
	if first.Value != 4.5 {
		t.Errorf("expected first bucket mean 4.5, got %v", first.Value)
	}
	if first.Index != 5 {
		t.Errorf("expected first bucket placed at row 5, got %d", first.Index)
	}
	checkRowOrder(t, result.Points)
}

func TestDownsample_M4(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = math.Sin(float64(i) * 0.05)
	}

	result, err := Downsample(values, ModeM4, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Points) > 100 {
		t.Errorf("expected at most 100 points, got %d", len(result.Points))
	}
	if result.Points[0].Index != 0 {
		t.Errorf("expected first row kept, got %d", result.Points[0].Index)
	}
	if last := result.Points[len(result.Points)-1].Index; last != 999 {
		t.Errorf("expected last row kept, got %d", last)
	}
	checkRowOrder(t, result.Points)
}

func TestDetectBestAlgorithm_SmoothData(t *testing.T) {
	points := make([]Point, 2000)
	for i := range points {
		points[i] = Point{Index: i, Value: float64(i) * 0.1}
	}

	if mode := detectBestAlgorithm(points); mode != ModeLTTB {
		t.Errorf("expected ModeLTTB for smooth data, got %s", mode)
	}
}

func TestDetectBestAlgorithm_SpikyData(t *testing.T) {
	points := make([]Point, 2000)
	for i := range points {
		value := 10.0
		if i%5 == 0 {
			value = 1000 // 20% of readings spike
		}
		points[i] = Point{Index: i, Value: value}
	}

	if mode := detectBestAlgorithm(points); mode != ModeMinMax {
		t.Errorf("expected ModeMinMax for spiky data, got %s", mode)
	}
}

func TestDetectBestAlgorithm_SimulatedNoise(t *testing.T) {
	// Uniform noise, like the simulated room sensors, changes sharply between minutes
	points := make([]Point, 1440)
	for i := range points {
		points[i] = Point{Index: i, Value: float64((i * 37) % 100)}
	}

	if mode := detectBestAlgorithm(points); mode == ModeLTTB {
		t.Errorf("expected a peak-preserving mode for noisy data, got %s", mode)
	}
}

func TestCalculateSpikiness(t *testing.T) {
	constant := make([]Point, 100)
	alternating := make([]Point, 100)
	for i := range constant {
		constant[i] = Point{Index: i, Value: 50}
		alternating[i] = Point{Index: i, Value: float64(i%2) * 100}
	}

	if s := calculateSpikiness(constant); s != 0 {
		t.Errorf("expected spikiness 0 for constant data, got %f", s)
	}
	if s := calculateSpikiness(alternating); s < 0.5 {
		t.Errorf("expected high spikiness for alternating data, got %f", s)
	}
	if s := calculateSpikiness(constant[:5]); s != 0 {
		t.Errorf("expected 0 for too few points, got %f", s)
	}
}
