package config

import "github.com/iamNilotpal/hashflow/internal/core/domain"

// Returns a ChunkConfig with recommended defaults.
func DefaultChunkConfig() *ChunkConfig {
	return &ChunkConfig{
		FileChunkSize: FileChunkSize,
		TextChunkSize: TextChunkSize,
	}
}

// Returns config with the same small chunk size for every source kind.
// Handy for tests and for very fine grained progress.
func UniformChunkConfig(size uint32) *ChunkConfig {
	return NewChunkConfig(WithFileChunkSize(size), WithTextChunkSize(size))
}

// ChunkSizeFor returns the configured chunk size for kind.
func (c *ChunkConfig) ChunkSizeFor(kind domain.SourceKind) uint32 {
	if kind == domain.SourceFile {
		return c.FileChunkSize
	}
	return c.TextChunkSize
}
