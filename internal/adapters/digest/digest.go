// Package digest implements the incremental digest accumulators.
package digest

import (
	"encoding/hex"
	"hash"
	"sync"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
)

// accumulator wraps a hash.Hash with finalize-once semantics.
type accumulator struct {
	mu        sync.Mutex
	algorithm domain.Algorithm
	h         hash.Hash
	sum       []byte // Set by the first Finalize.
}

var _ ports.Accumulator = (*accumulator)(nil)

// New allocates fresh state for alg. No state is shared between accumulators.
func New(alg domain.Algorithm) (ports.Accumulator, error) {
	if err := Validate(alg); err != nil {
		return nil, err
	}

	return &accumulator{algorithm: alg, h: constructors[alg]()}, nil
}

// Update appends chunk to the running hash.
func (a *accumulator) Update(chunk []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sum != nil {
		return domain.ErrAccumulatorFinalized
	}

	// hash.Hash.Write never returns an error.
	_, _ = a.h.Write(chunk)
	return nil
}

// Finalize returns the digest. Repeated calls return copies of the same bytes.
func (a *accumulator) Finalize() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sum == nil {
		a.sum = a.h.Sum(nil)
		a.h = nil
	}

	out := make([]byte, len(a.sum))
	copy(out, a.sum)
	return out
}

func (a *accumulator) Algorithm() domain.Algorithm {
	return a.algorithm
}

func (a *accumulator) Size() int {
	return a.algorithm.DigestSize()
}

// Hex encodes a digest as lowercase hex without separators or prefix.
func Hex(sum []byte) string {
	return hex.EncodeToString(sum)
}

// Sum hashes data in one step. Used as a reference by callers that
// already hold the full input.
func Sum(alg domain.Algorithm, data []byte) ([]byte, error) {
	acc, err := New(alg)
	if err != nil {
		return nil, err
	}

	if err := acc.Update(data); err != nil {
		return nil, err
	}

	return acc.Finalize(), nil
}
