// Package scheduler pumps chunks from an input source into a digest accumulator.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/iamNilotpal/hashflow/internal/core/services"
	"github.com/iamNilotpal/hashflow/pkg/logger"
	"github.com/iamNilotpal/hashflow/pkg/pool"
	"go.uber.org/zap"
)

// ErrInvalidChunkSize rejects jobs with a zero chunk size.
var ErrInvalidChunkSize = errors.New("chunk size must be greater than 0")

// Outcome is how a run ended.
type Outcome uint8

const (
	OutcomeComplete Outcome = iota + 1
	OutcomeFailed
	OutcomeCancelled
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Listeners receive the events of one run. Every field is optional.
// They are invoked synchronously on the goroutine calling Run.
type Listeners struct {
	// OnProgress fires after each chunk. processed never decreases and
	// equals total exactly once, right before OnComplete.
	OnProgress func(processed, total uint64)

	// OnComplete receives the finalized digest.
	OnComplete func(digest []byte)

	// OnError receives the failure that stopped the run.
	OnError func(err error)
}

// Job describes one run.
type Job struct {
	Source      ports.InputSource
	Accumulator ports.Accumulator
	ChunkSize   uint32
	Listeners   Listeners
}

// Scheduler drives jobs to completion. A single Scheduler can run jobs
// for different sessions concurrently; each job is strictly sequential.
type Scheduler struct {
	log *zap.SugaredLogger

	mu    sync.Mutex
	pools map[uint32]*pool.BufferPool // Chunk buffers keyed by chunk size.
}

// New creates a scheduler. A nil log discards output.
func New(log *zap.SugaredLogger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{log: log, pools: make(map[uint32]*pool.BufferPool)}
}

// Run reads the source from offset 0 in ChunkSize windows, feeding each chunk
// to the accumulator in order and reporting progress after each one.
//
// Cancellation of ctx is observed before every read and right after it; once
// observed the run stops, the accumulator is abandoned and neither OnComplete
// nor OnError fires. Progress already reported is never rolled back.
func (s *Scheduler) Run(ctx context.Context, job Job) Outcome {
	if job.ChunkSize == 0 {
		s.fail(job, services.NewEngineError("schedule", ErrInvalidChunkSize))
		return OutcomeFailed
	}

	plan := domain.NewChunkPlan(job.Source.TotalBytes(), job.ChunkSize)
	if ctx.Err() != nil {
		return OutcomeCancelled
	}

	if plan.IsEmpty() {
		s.progress(job, 0, 0)
		s.complete(job)
		return OutcomeComplete
	}

	read := s.reader(job)
	defer read.release()

	var processed uint64
	for offset := uint64(0); offset < plan.TotalBytes; {
		if ctx.Err() != nil {
			return OutcomeCancelled
		}

		chunk, err := read.next(ctx, offset)

		// Reads are the only suspend point; a cancel that arrived meanwhile wins.
		if ctx.Err() != nil {
			return OutcomeCancelled
		}

		if err == nil {
			err = checkLength(offset, plan, len(chunk))
		}
		if err != nil {
			s.fail(job, services.NewEngineError("read chunk", err))
			return OutcomeFailed
		}

		if err := job.Accumulator.Update(chunk); err != nil {
			s.log.Errorw("accumulator contract violated", "offset", offset, "error", err)
			s.fail(job, services.NewEngineError("update digest", err))
			return OutcomeFailed
		}

		offset += uint64(len(chunk))
		processed++

		s.log.Debugw("chunk hashed", "source", job.Source.Name(), "chunk", processed, "of", plan.TotalChunks)
		s.progress(job, processed, plan.TotalChunks)
	}

	s.complete(job)
	return OutcomeComplete
}

// checkLength enforces the source contract: full chunks everywhere but the tail.
func checkLength(offset uint64, plan domain.ChunkPlan, got int) error {
	want := plan.TotalBytes - offset
	if want > uint64(plan.ChunkSize) {
		want = uint64(plan.ChunkSize)
	}

	if uint64(got) != want {
		return fmt.Errorf("%w: got %d bytes at offset %d, want %d", domain.ErrSourceRead, got, offset, want)
	}
	return nil
}

func (s *Scheduler) progress(job Job, processed, total uint64) {
	if job.Listeners.OnProgress != nil {
		job.Listeners.OnProgress(processed, total)
	}
}

func (s *Scheduler) complete(job Job) {
	sum := job.Accumulator.Finalize()
	if job.Listeners.OnComplete != nil {
		job.Listeners.OnComplete(sum)
	}
}

func (s *Scheduler) fail(job Job, err error) {
	if job.Listeners.OnError != nil {
		job.Listeners.OnError(err)
	}
}

// chunkReader hides whether a run uses a pooled buffer or source owned slices.
type chunkReader struct {
	next    func(ctx context.Context, offset uint64) ([]byte, error)
	release func()
}

func (s *Scheduler) reader(job Job) chunkReader {
	into, ok := job.Source.(ports.ChunkReader)
	if !ok {
		return chunkReader{
			next: func(ctx context.Context, offset uint64) ([]byte, error) {
				return job.Source.ReadChunk(ctx, offset, job.ChunkSize)
			},
			release: func() {},
		}
	}

	bp := s.bufferPool(job.ChunkSize)
	buf := bp.Get()

	return chunkReader{
		next: func(ctx context.Context, offset uint64) ([]byte, error) {
			n, err := into.ReadChunkInto(ctx, offset, *buf)
			return (*buf)[:n], err
		},
		release: func() { bp.Put(buf) },
	}
}

func (s *Scheduler) bufferPool(size uint32) *pool.BufferPool {
	s.mu.Lock()
	defer s.mu.Unlock()

	bp, ok := s.pools[size]
	if !ok {
		bp = pool.NewBufferPool(int(size))
		s.pools[size] = bp
	}
	return bp
}
