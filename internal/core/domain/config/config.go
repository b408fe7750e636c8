package config

import (
	"fmt"
)

const (
	// MinChunkSize is the smallest chunk the scheduler accepts.
	// Below this the per chunk overhead dominates and progress events flood listeners.
	MinChunkSize = 4 * 1024 // 4KB.

	// TextChunkSize is the default for in-memory text. No I/O latency is
	// involved, so small chunks only buy finer progress.
	TextChunkSize = 1024 * 1024 // 1MB.

	// FileChunkSize is the default for files on disk. Large chunks limit
	// the number of read round trips for multi gigabyte inputs.
	FileChunkSize = 20 * 1024 * 1024 // 20MB.

	// MaxChunkSize bounds the memory held by one running session.
	MaxChunkSize = 64 * 1024 * 1024 // 64MB.
)

// ChunkConfig holds the chunk sizes used per source kind.
type ChunkConfig struct {
	// FileChunkSize is used for file backed sources.
	FileChunkSize uint32

	// TextChunkSize is used for in-memory sources.
	TextChunkSize uint32
}

// ChunkConfigOption defines the signature for configuration options.
type ChunkConfigOption func(*ChunkConfig)

// WithFileChunkSize sets the chunk size for file sources.
// Sizes outside [MinChunkSize, MaxChunkSize] are ignored.
func WithFileChunkSize(size uint32) ChunkConfigOption {
	return func(c *ChunkConfig) {
		if size >= MinChunkSize && size <= MaxChunkSize {
			c.FileChunkSize = size
		}
	}
}

// WithTextChunkSize sets the chunk size for text sources.
// Sizes outside [MinChunkSize, MaxChunkSize] are ignored.
func WithTextChunkSize(size uint32) ChunkConfigOption {
	return func(c *ChunkConfig) {
		if size >= MinChunkSize && size <= MaxChunkSize {
			c.TextChunkSize = size
		}
	}
}

// NewChunkConfig starts from DefaultChunkConfig and applies opts in order.
func NewChunkConfig(opts ...ChunkConfigOption) *ChunkConfig {
	cfg := DefaultChunkConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// ChunkValidationError represents a specific chunk configuration failure.
type ChunkValidationError struct {
	Field   string
	Value   uint32
	Details string
}

func (e *ChunkValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s (%d): %s", e.Field, e.Value, e.Details)
}

// Validate checks both chunk sizes against the allowed bounds.
func (c *ChunkConfig) Validate() error {
	fields := []struct {
		name  string
		value uint32
	}{
		{"FileChunkSize", c.FileChunkSize},
		{"TextChunkSize", c.TextChunkSize},
	}

	for _, f := range fields {
		if f.value < MinChunkSize {
			return &ChunkValidationError{
				Field:   f.name,
				Value:   f.value,
				Details: fmt.Sprintf("below minimum allowed value of %d", MinChunkSize),
			}
		}

		if f.value > MaxChunkSize {
			return &ChunkValidationError{
				Field:   f.name,
				Value:   f.value,
				Details: fmt.Sprintf("exceeds maximum allowed value of %d", MaxChunkSize),
			}
		}
	}

	return nil
}
