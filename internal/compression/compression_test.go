package compression

import (
	"bytes"
	"testing"
)

func TestNoneCompressor_CompressDecompress(t *testing.T) {
	compressor := &NoneCompressor{}

	original := []byte(`{"sensor":"Temperature","threshold":2.5}`)

	compressed, err := compressor.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if !bytes.Equal(original, compressed) {
		t.Error("NoneCompressor.Compress should return identical data")
	}

	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(original, decompressed) {
		t.Error("NoneCompressor.Decompress should return identical data")
	}

	if compressor.Algorithm() != None {
		t.Errorf("Expected algorithm None, got %s", compressor.Algorithm())
	}
}

func TestGetCompressor(t *testing.T) {
	for _, algo := range []Algorithm{None, Snappy} {
		compressor, err := GetCompressor(algo)
		if err != nil {
			t.Fatalf("GetCompressor(%s) failed: %v", algo, err)
		}
		if compressor.Algorithm() != algo {
			t.Errorf("Expected %s algorithm, got %s", algo, compressor.Algorithm())
		}
	}

	if _, err := GetCompressor(Algorithm(99)); err == nil {
		t.Error("Expected error for unsupported algorithm, got nil")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		want    Algorithm
		wantErr bool
	}{
		{name: "", want: None},
		{name: "none", want: None},
		{name: "Snappy", want: Snappy},
		{name: " snappy ", want: Snappy},
		{name: "zstd", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAlgorithm(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): unexpected error %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestAlgorithm_String(t *testing.T) {
	if None.String() != "none" || Snappy.String() != "snappy" {
		t.Errorf("unexpected names %q %q", None.String(), Snappy.String())
	}
	if Algorithm(7).String() != "algorithm(7)" {
		t.Errorf("unexpected name %q", Algorithm(7).String())
	}
}
