package wire

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the whole-message compression codec.
type Compression uint8

const (
	// CompressionNone sends message bodies uncompressed.
	CompressionNone Compression = iota
	// CompressionLZ4 compresses bodies with LZ4 block compression.
	CompressionLZ4
	// CompressionS2 compresses bodies with S2 (Snappy-compatible).
	CompressionS2
)

// ErrBadCodec is returned when a message envelope names an unknown codec.
type ErrBadCodec struct {
	Codec uint8
}

func (e *ErrBadCodec) Error() string {
	return fmt.Sprintf("wire: unknown compression codec %d", e.Codec)
}

// Seal wraps body in a compression envelope: [codec u8][rawLen u32][bytes].
// If the codec does not shrink the body, the message falls back to the
// uncompressed envelope; receivers never need the sender's configuration.
func Seal(c Compression, body []byte) []byte {
	switch c {
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(body)))
		var compressor lz4.Compressor
		n, err := compressor.CompressBlock(body, dst)
		if err == nil && n > 0 && n < len(body) {
			return sealEnvelope(CompressionLZ4, len(body), dst[:n])
		}
	case CompressionS2:
		dst := s2.Encode(nil, body)
		if len(dst) < len(body) {
			return sealEnvelope(CompressionS2, len(body), dst)
		}
	}
	return sealEnvelope(CompressionNone, len(body), body)
}

func sealEnvelope(c Compression, rawLen int, payload []byte) []byte {
	out := make([]byte, 0, 5+len(payload))
	w := Buffer{b: out}
	w.PutU8(uint8(c))
	w.PutU32(uint32(rawLen))
	w.b = append(w.b, payload...)
	return w.b
}

// Open unwraps a compression envelope and returns the raw body.
func Open(msg []byte) ([]byte, error) {
	r := NewReader(msg)
	codec, err := r.U8()
	if err != nil {
		return nil, err
	}
	rawLen, err := r.U32()
	if err != nil {
		return nil, err
	}
	payload := msg[5:]

	switch Compression(codec) {
	case CompressionNone:
		if len(payload) != int(rawLen) {
			return nil, ErrTruncated
		}
		return payload, nil
	case CompressionLZ4:
		dst := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, fmt.Errorf("wire: lz4 decompress: %w", err)
		}
		if n != int(rawLen) {
			return nil, ErrTruncated
		}
		return dst, nil
	case CompressionS2:
		dst, err := s2.Decode(make([]byte, 0, rawLen), payload)
		if err != nil {
			return nil, fmt.Errorf("wire: s2 decompress: %w", err)
		}
		if len(dst) != int(rawLen) {
			return nil, ErrTruncated
		}
		return dst, nil
	default:
		return nil, &ErrBadCodec{Codec: codec}
	}
}
