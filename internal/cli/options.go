package cli

import (
	"fmt"
	"time"

	"github.com/iamNilotpal/hashflow/config"
	"github.com/iamNilotpal/hashflow/internal/core/domain"
	chunks "github.com/iamNilotpal/hashflow/internal/core/domain/config"
	"github.com/iamNilotpal/hashflow/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultFormat prints the digest followed by the input name, like sha256sum.
const DefaultFormat = "{{digest}}  {{source}}"

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	ConfigFile string
	Algorithm  string
	ChunkSize  uint32
	JSON       bool
	Format     string
	Progress   bool
	LogLevel   string
	LogFormat  string
	Timeout    time.Duration
}

// AddFlags registers the persistent flags on cmd.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&o.ConfigFile, "config", "", "path to a YAML configuration file")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	flags.StringVarP(&o.Algorithm, "algorithm", "a", domain.DefaultAlgorithm.String(),
		"digest algorithm (MD5, SHA1, SHA224, SHA256, SHA384, SHA512, SHA3)")
	flags.Uint32Var(&o.ChunkSize, "chunk-size", 0,
		fmt.Sprintf("bytes per chunk for every input kind (%d to %d, 0 uses the configured sizes)",
			chunks.MinChunkSize, chunks.MaxChunkSize))
	flags.BoolVar(&o.JSON, "json", false, "print the final snapshot as JSON")
	flags.StringVar(&o.Format, "format", DefaultFormat,
		"result line template; tags: {{digest}} {{source}} {{algorithm}} {{bytes}} {{chunks}}")
	flags.BoolVar(&o.Progress, "progress", false, "report progress on stderr")
	flags.StringVar(&o.LogLevel, "log-level", "", "minimum log level (debug, info, warn, error, silent)")
	flags.StringVar(&o.LogFormat, "log-format", "", "log output format (text, json)")
	flags.DurationVarP(&o.Timeout, "timeout", "t", 0, "abort the computation after this long (0 disables)")
}

// settings is the configuration file merged with explicitly set flags.
type settings struct {
	algorithm domain.Algorithm
	chunks    *chunks.ChunkConfig
	log       *zap.SugaredLogger
}

func (o *RootOptions) resolve(cmd *cobra.Command) (*settings, error) {
	cfg := config.DefaultConfig()
	if o.ConfigFile != "" {
		loaded, err := config.LoadConfig(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		cfg.Engine.DefaultAlgorithm = o.Algorithm
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	alg, err := cfg.Algorithm()
	if err != nil {
		return nil, err
	}

	sizes := cfg.Chunks()
	if o.ChunkSize != 0 {
		sizes = &chunks.ChunkConfig{FileChunkSize: o.ChunkSize, TextChunkSize: o.ChunkSize}
		if err := sizes.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logger.NewWithOptions(logger.Options{
		Service: "hashflow",
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	return &settings{algorithm: alg, chunks: sizes, log: log}, nil
}
