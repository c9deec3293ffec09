package compression

import (
	"fmt"

	"github.com/golang/snappy"
)

const (
	// MinSnappySize is the smallest payload worth encoding; shorter
	// payloads are stored raw behind the frame marker
	MinSnappySize = 64

	// MaxDecodedSize rejects entries that claim to expand beyond 64 MiB
	MaxDecodedSize = 64 << 20
)

// Frame markers prefixed to every non-empty payload
const (
	frameRaw    byte = 'r'
	frameSnappy byte = 's'
)

// SnappyCompressor frames cache payloads with a one-byte marker and
// Snappy-encodes those that shrink
type SnappyCompressor struct{}

// NewSnappyCompressor creates a new Snappy compressor
func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{}
}

// Compress frames data, encoding it unless it is short or incompressible
func (s *SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	if len(data) >= MinSnappySize {
		encoded := snappy.Encode(nil, data)
		if len(encoded) < len(data) {
			out := make([]byte, 1+len(encoded))
			out[0] = frameSnappy
			copy(out[1:], encoded)
			return out, nil
		}
	}

	out := make([]byte, 1+len(data))
	out[0] = frameRaw
	copy(out[1:], data)
	return out, nil
}

// Decompress reverses Compress
func (s *SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	body := data[1:]
	switch data[0] {
	case frameRaw:
		return body, nil
	case frameSnappy:
		n, err := snappy.DecodedLen(body)
		if err != nil {
			return nil, fmt.Errorf("snappy decompress failed: %w", err)
		}
		if n > MaxDecodedSize {
			return nil, fmt.Errorf("snappy decompress failed: decoded size %d exceeds %d", n, MaxDecodedSize)
		}
		decoded, err := snappy.Decode(nil, body)
		if err != nil {
			return nil, fmt.Errorf("snappy decompress failed: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("snappy decompress failed: unknown frame marker %q", data[0])
	}
}

// Algorithm returns Snappy
func (s *SnappyCompressor) Algorithm() Algorithm {
	return Snappy
}
