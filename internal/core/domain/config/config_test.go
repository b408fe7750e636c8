package config_test

import (
	"testing"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkConfig_applies_options_in_bounds(t *testing.T) {
	t.Parallel()

	cfg := config.NewChunkConfig(config.WithFileChunkSize(8192), config.WithTextChunkSize(1))

	assert.Equal(t, uint32(8192), cfg.ChunkSizeFor(domain.SourceFile))
	assert.Equal(t, uint32(config.TextChunkSize), cfg.ChunkSizeFor(domain.SourceText))
	assert.NoError(t, cfg.Validate())
}

func TestUniformChunkConfig(t *testing.T) {
	t.Parallel()

	cfg := config.UniformChunkConfig(config.MinChunkSize)

	assert.Equal(t, cfg.FileChunkSize, cfg.TextChunkSize)
	assert.Equal(t, uint32(config.MinChunkSize), cfg.FileChunkSize)
}

func TestChunkConfig_Validate_bounds(t *testing.T) {
	t.Parallel()

	low := &config.ChunkConfig{FileChunkSize: config.FileChunkSize, TextChunkSize: 10}
	var cve *config.ChunkValidationError
	require.ErrorAs(t, low.Validate(), &cve)
	assert.Equal(t, "TextChunkSize", cve.Field)

	high := &config.ChunkConfig{FileChunkSize: config.MaxChunkSize + 1, TextChunkSize: config.TextChunkSize}
	require.ErrorAs(t, high.Validate(), &cve)
	assert.Equal(t, "FileChunkSize", cve.Field)
	assert.Contains(t, cve.Error(), "exceeds maximum")
}
