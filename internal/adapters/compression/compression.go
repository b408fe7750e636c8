package compression

import (
	"fmt"
	"runtime"
)

// DefaultMaxMemory matches the largest payload a zstd source keeps resident.
const DefaultMaxMemory uint64 = 1 << 30

// Returns Options with one decoding goroutine, which is plenty for single
// file decoding.
func DefaultOptions() Options {
	return Options{
		DecoderConcurrency: 1,
		MaxMemory:          DefaultMaxMemory,
	}
}

// Checks if the decoder options are valid and returns an error if any option
// is outside acceptable bounds.
func Validate(input Options) error {
	if int(input.DecoderConcurrency) > runtime.NumCPU() {
		return fmt.Errorf(
			"decoder concurrency must be between 0 and %d, got %d", runtime.NumCPU(), input.DecoderConcurrency,
		)
	}

	return nil
}
