package utils

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		// Float types
		{"float64", float64(3.14), 3.14, true},
		{"float32", float32(2.5), 2.5, true},

		// Signed integers
		{"int", int(42), 42, true},
		{"int8", int8(8), 8, true},
		{"int16", int16(16), 16, true},
		{"int32", int32(32), 32, true},
		{"int64", int64(64), 64, true},

		// Unsigned integers
		{"uint", uint(100), 100, true},
		{"uint8", uint8(8), 8, true},
		{"uint16", uint16(16), 16, true},
		{"uint32", uint32(32), 32, true},
		{"uint64", uint64(64), 64, true},

		// Negative numbers
		{"negative int", int(-42), -42, true},
		{"negative float64", float64(-3.14), -3.14, true},

		// Zero values
		{"zero int", int(0), 0, true},
		{"zero float64", float64(0), 0, true},

		// Invalid types
		{"string", "hello", 0, false},
		{"bool true", true, 0, false},
		{"bool false", false, 0, false},
		{"nil", nil, 0, false},
		{"slice", []int{1, 2, 3}, 0, false},
		{"map", map[string]int{"a": 1}, 0, false},
		{"struct", struct{ X int }{X: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToFloat64(tt.input)

			if ok != tt.ok {
				t.Errorf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}

			if result != tt.expected {
				t.Errorf("ToFloat64(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToSeries(t *testing.T) {
	var decoded []interface{}
	if err := json.Unmarshal([]byte(`[20, null, 21.5, "x", 30]`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	series := ToSeries(decoded)
	if len(series) != 5 {
		t.Fatalf("expected 5 values, got %d", len(series))
	}
	if series[0] != 20 || series[2] != 21.5 || series[4] != 30 {
		t.Errorf("unexpected numeric values %v", series)
	}
	if !math.IsNaN(series[1]) || !math.IsNaN(series[3]) {
		t.Errorf("expected NaN for null and string, got %v %v", series[1], series[3])
	}
}

func TestNullable(t *testing.T) {
	if Nullable(math.NaN()) != nil {
		t.Error("NaN should be nil")
	}
	if Nullable(math.Inf(1)) != nil {
		t.Error("+Inf should be nil")
	}
	if p := Nullable(2.5); p == nil || *p != 2.5 {
		t.Errorf("expected pointer to 2.5, got %v", p)
	}

	out, err := json.Marshal(NullableSlice([]float64{1, math.NaN(), 3}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "[1,null,3]" {
		t.Errorf("expected [1,null,3], got %s", out)
	}
}

func TestFinite(t *testing.T) {
	if Finite(math.NaN()) != 0 || Finite(math.Inf(-1)) != 0 || Finite(4) != 4 {
		t.Error("unexpected Finite result")
	}
}

func BenchmarkToSeries(b *testing.B) {
	values := make([]interface{}, 10080)
	for i := range values {
		values[i] = float64(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ToSeries(values)
	}
}
