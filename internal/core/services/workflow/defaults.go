package workflow

import (
	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/domain/config"
	"github.com/iamNilotpal/hashflow/internal/core/services/scheduler"
	"github.com/iamNilotpal/hashflow/pkg/logger"
)

// DefaultOptions returns the options used when New receives nil.
func DefaultOptions() *Options {
	return prepareDefaults(&Options{})
}

func prepareDefaults(opts *Options) *Options {
	if opts.Chunks == nil {
		opts.Chunks = config.DefaultChunkConfig()
	}

	if opts.DefaultAlgorithm == "" {
		opts.DefaultAlgorithm = domain.DefaultAlgorithm
	}

	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.New(opts.Logger)
	}

	return opts
}
