package compression

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/golang/snappy"

	"github.com/soltixdb/roomsense/internal/analytics"
	"github.com/soltixdb/roomsense/internal/models"
	"github.com/soltixdb/roomsense/internal/simulator"
)

// anomalyPayload renders a simulated week as the JSON body the result
// cache stores for an anomaly request with rows
func anomalyPayload(t *testing.T) []byte {
	t.Helper()

	table, err := simulator.Generate(simulator.DefaultConfig())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	col, err := table.Column(analytics.SensorCO2)
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}

	resp := models.AnomalyResponse{
		DatasetID: table.ID(),
		Sensor:    analytics.SensorCO2.String(),
		Threshold: 2.5,
		Rows:      make([]models.AnomalyRowView, len(col)),
	}
	for i := range col {
		v := col[i]
		resp.Rows[i] = models.AnomalyRowView{
			Index: i,
			Day:   table.DayAt(i).String(),
			Time:  table.TimeAt(i),
			Value: &v,
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return data
}

func TestSnappyCompressor_Algorithm(t *testing.T) {
	if NewSnappyCompressor().Algorithm() != Snappy {
		t.Errorf("Expected algorithm Snappy, got %s", NewSnappyCompressor().Algorithm())
	}
}

func TestSnappyCompressor_AnomalyPayload(t *testing.T) {
	compressor := NewSnappyCompressor()
	original := anomalyPayload(t)

	compressed, err := compressor.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if compressed[0] != frameSnappy {
		t.Fatalf("Expected snappy frame, got %q", compressed[0])
	}
	if len(compressed) >= len(original)*3/4 {
		t.Errorf("Expected a week of rows to shrink by a quarter, %d -> %d bytes", len(original), len(compressed))
	}

	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(original, decompressed) {
		t.Fatal("Decompressed payload differs from original")
	}

	var resp models.AnomalyResponse
	if err := json.Unmarshal(decompressed, &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(resp.Rows) != 7*analytics.MinutesPerDay {
		t.Errorf("Expected %d rows, got %d", 7*analytics.MinutesPerDay, len(resp.Rows))
	}
}

func TestSnappyCompressor_SmallPayloadStoredRaw(t *testing.T) {
	compressor := NewSnappyCompressor()
	original := []byte(`{"sensor":"Light","binned":4}`)

	compressed, err := compressor.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if compressed[0] != frameRaw || !bytes.Equal(compressed[1:], original) {
		t.Errorf("Expected raw frame around original, got %q", compressed)
	}

	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(original, decompressed) {
		t.Errorf("Expected %q, got %q", original, decompressed)
	}
}

func TestSnappyCompressor_EmptyData(t *testing.T) {
	compressor := NewSnappyCompressor()

	compressed, err := compressor.Compress(nil)
	if err != nil || len(compressed) != 0 {
		t.Errorf("Expected empty output, got %q (err %v)", compressed, err)
	}
	decompressed, err := compressor.Decompress([]byte{})
	if err != nil || len(decompressed) != 0 {
		t.Errorf("Expected empty output, got %q (err %v)", decompressed, err)
	}
}

func TestSnappyCompressor_RejectsBadEntries(t *testing.T) {
	compressor := NewSnappyCompressor()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "unknown marker", data: []byte("x{}")},
		{name: "corrupt body", data: []byte{frameSnappy, 0xff, 0xff, 0xff}},
		{name: "unframed snappy", data: snappy.Encode(nil, bytes.Repeat([]byte("z"), 128))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compressor.Decompress(tt.data); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
