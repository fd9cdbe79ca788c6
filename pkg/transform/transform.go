// Package transform applies reversible byte transformations to vector files
// on their way to and from disk.
package transform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdSuffix marks files stored zstd-compressed.
const ZstdSuffix = ".zst"

// Transform is applied before writing and reversed after reading.
type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

type nullTransform struct{}

// NewNullTransform returns a Transform that leaves data untouched.
func NewNullTransform() Transform { return nullTransform{} }

func (nullTransform) Apply(data []byte) ([]byte, error)   { return data, nil }
func (nullTransform) Reverse(data []byte) ([]byte, error) { return data, nil }

type zstdTransform struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdTransform creates a Zstandard compression transform at the given
// level, e.g. zstd.SpeedDefault or zstd.SpeedBestCompression.
func NewZstdTransform(level zstd.EncoderLevel) (Transform, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to initialize encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to initialize decoder: %w", err)
	}
	return &zstdTransform{encoder: enc, decoder: dec}, nil
}

// Apply compresses data.
func (s *zstdTransform) Apply(data []byte) ([]byte, error) {
	return s.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Reverse decompresses data. Safe for concurrent use.
func (s *zstdTransform) Reverse(data []byte) ([]byte, error) {
	out, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reverse: failed to decode data: %w", err)
	}
	return out, nil
}

// sharedZstd backs every *.zst file so encoder and decoder goroutines are
// started once.
var sharedZstd = sync.OnceValues(func() (Transform, error) {
	return NewZstdTransform(zstd.SpeedDefault)
})

// ForPath picks the transform matching a file name: zstd for *.zst, null
// otherwise.
func ForPath(path string) (Transform, error) {
	if strings.HasSuffix(path, ZstdSuffix) {
		return sharedZstd()
	}
	return NewNullTransform(), nil
}
