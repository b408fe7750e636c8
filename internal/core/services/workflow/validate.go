package workflow

import (
	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/pkg/errors"
)

// Validate checks the caller supplied fields of opts. Zero values are
// allowed and replaced by defaults later.
func Validate(opts *Options) error {
	if opts.Chunks != nil {
		if err := opts.Chunks.Validate(); err != nil {
			return err
		}
	}

	if opts.DefaultAlgorithm != "" && !opts.DefaultAlgorithm.IsValid() {
		return errors.NewValidationError("defaultAlgorithm", opts.DefaultAlgorithm, domain.ErrUnsupportedAlgorithm)
	}

	return nil
}
