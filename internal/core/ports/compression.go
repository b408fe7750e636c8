package ports

import "io"

// Defines the interface for decoding compressed inputs.
// This allows compressed inputs to be hashed by their payload without
// changing the scheduler.
type DecompressionPort interface {
	// NewReader returns a reader yielding the decompressed form of r.
	// Closing it releases the decoder.
	NewReader(r io.Reader) (io.ReadCloser, error)
}
