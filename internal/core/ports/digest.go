package ports

import "github.com/iamNilotpal/hashflow/internal/core/domain"

// Accumulator is the running state of one digest computation.
// It is order dependent: chunks must be fed exactly in source order,
// and it cannot detect reordering or duplication on its own.
type Accumulator interface {
	// Update appends chunk to the computation.
	// Returns domain.ErrAccumulatorFinalized once Finalize has been called.
	Update(chunk []byte) error

	// Finalize completes the algorithm and returns the digest.
	// Calling it again returns the same bytes.
	Finalize() []byte

	// Algorithm returns the algorithm this accumulator computes.
	Algorithm() domain.Algorithm

	// Size returns the digest length in bytes.
	Size() int
}
