// Package config loads the hashflow YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	chunks "github.com/iamNilotpal/hashflow/internal/core/domain/config"
	verr "github.com/iamNilotpal/hashflow/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var errOutOfRange = errors.New("out of range")

type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
}

// Holds hashing engine configuration. Zero sizes fall back to the defaults.
type EngineConfig struct {
	FileChunkSize    uint32 `yaml:"file_chunk_size"`   // Bytes per chunk for files
	TextChunkSize    uint32 `yaml:"text_chunk_size"`   // Bytes per chunk for in-memory text
	DefaultAlgorithm string `yaml:"default_algorithm"` // Algorithm selected at start and after reset
}

// Holds logger configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error or silent
	Format string `yaml:"format"` // json or text
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			FileChunkSize:    chunks.FileChunkSize,
			TextChunkSize:    chunks.TextChunkSize,
			DefaultAlgorithm: domain.DefaultAlgorithm.String(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate reports the first invalid field as a *errors.ValidationError.
func (c *Config) Validate() error {
	if err := validateChunkSize("engine.file_chunk_size", c.Engine.FileChunkSize); err != nil {
		return err
	}

	if err := validateChunkSize("engine.text_chunk_size", c.Engine.TextChunkSize); err != nil {
		return err
	}

	if c.Engine.DefaultAlgorithm != "" {
		if _, err := domain.ParseAlgorithm(c.Engine.DefaultAlgorithm); err != nil {
			return verr.NewValidationError("engine.default_algorithm", c.Engine.DefaultAlgorithm, err)
		}
	}

	if c.Log.Level != "" && !strings.EqualFold(c.Log.Level, "silent") {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return verr.NewValidationError("log.level", c.Log.Level, err)
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text", "console":
	default:
		return verr.NewValidationError("log.format", c.Log.Format, errors.New("must be json or text"))
	}

	return nil
}

// Chunks returns the engine chunk sizes. Zero values keep the defaults.
func (c *Config) Chunks() *chunks.ChunkConfig {
	return chunks.NewChunkConfig(
		chunks.WithFileChunkSize(c.Engine.FileChunkSize),
		chunks.WithTextChunkSize(c.Engine.TextChunkSize),
	)
}

// Algorithm returns the configured default algorithm, MD5 when unset.
func (c *Config) Algorithm() (domain.Algorithm, error) {
	if c.Engine.DefaultAlgorithm == "" {
		return domain.DefaultAlgorithm, nil
	}
	return domain.ParseAlgorithm(c.Engine.DefaultAlgorithm)
}

func validateChunkSize(field string, size uint32) error {
	if size == 0 {
		return nil
	}

	if size < chunks.MinChunkSize || size > chunks.MaxChunkSize {
		return verr.NewValidationError(
			field, size,
			fmt.Errorf("%w: must be between %d and %d bytes", errOutOfRange, chunks.MinChunkSize, chunks.MaxChunkSize),
		)
	}

	return nil
}
