// Package compression provides zstd decoding for compressed inputs.
package compression

import (
	"fmt"
	"io"

	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/klauspost/compress/zstd"
)

type Options struct {
	// DecoderConcurrency is the number of goroutines per stream. 0 means 1.
	DecoderConcurrency uint8

	// MaxMemory caps the memory a single frame may allocate while decoding.
	MaxMemory uint64
}

// ZstdDecoder implements DecompressionPort using the zstd algorithm.
// It holds only settings; every stream gets its own decoder, so it is safe
// for concurrent use and needs no closing.
type ZstdDecoder struct {
	opts Options
}

var _ ports.DecompressionPort = (*ZstdDecoder)(nil)

// NewZstdDecoder validates opts and returns a decoder factory.
func NewZstdDecoder(opts Options) (*ZstdDecoder, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}

	if opts.DecoderConcurrency == 0 {
		opts.DecoderConcurrency = 1
	}
	if opts.MaxMemory == 0 {
		opts.MaxMemory = DefaultMaxMemory
	}

	return &ZstdDecoder{opts: opts}, nil
}

// NewReader returns a streaming decoder over r using the configured settings.
func (z *ZstdDecoder) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(
		r,
		zstd.WithDecoderConcurrency(int(z.opts.DecoderConcurrency)),
		zstd.WithDecoderMaxMemory(z.opts.MaxMemory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream decoder: %w", err)
	}
	return dec.IOReadCloser(), nil
}
