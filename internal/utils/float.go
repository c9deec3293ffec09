package utils

import "math"

// ToFloat64 converts various numeric types to float64.
// Returns the converted value and true if successful, or 0 and false if conversion fails.
// Supports: float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64
func ToFloat64(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// ToSeries converts decoded JSON values to a reading series.
// Non-numeric entries (null included) become NaN, a missing reading.
func ToSeries(values []interface{}) []float64 {
	series := make([]float64, len(values))
	for i, v := range values {
		f, ok := ToFloat64(v)
		if !ok {
			f = math.NaN()
		}
		series[i] = f
	}
	return series
}

// Nullable returns nil for NaN or infinite values and a pointer to v otherwise,
// so missing results encode as JSON null
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NullableSlice applies Nullable to every element
func NullableSlice(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = Nullable(v)
	}
	return out
}

// Finite replaces NaN and infinities with 0
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
