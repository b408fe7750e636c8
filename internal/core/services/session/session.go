// Package session runs one digest computation from a fixed input and
// algorithm to a terminal outcome.
package session

import (
	"context"
	"sync"

	"github.com/iamNilotpal/hashflow/internal/adapters/digest"
	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/iamNilotpal/hashflow/internal/core/services"
	"github.com/iamNilotpal/hashflow/internal/core/services/scheduler"
	"github.com/iamNilotpal/hashflow/pkg/logger"
	"go.uber.org/zap"
)

// Options configures a session.
type Options struct {
	// ChunkSize is the number of bytes pulled per step. Required.
	ChunkSize uint32

	// Scheduler runs the chunk loop. A private one is created when nil.
	Scheduler *scheduler.Scheduler

	// Listeners are notified on every change.
	Listeners domain.SessionListeners

	// Logger receives lifecycle events. Discarded when nil.
	Logger *zap.SugaredLogger
}

// Session owns one accumulator for one source and algorithm.
//
// States: Idle -> Running -> {Complete | Cancelled | Failed}. Terminal
// sessions are never restarted; computing again needs a new session.
type Session struct {
	source    ports.InputSource // Borrowed, never copied.
	algorithm domain.Algorithm
	plan      domain.ChunkPlan
	opts      Options
	log       *zap.SugaredLogger

	mu              sync.RWMutex
	status          domain.SessionStatus
	acc             ports.Accumulator
	processed       uint64
	percent         float64
	digestHex       string
	err             error
	cancelRequested bool
	cancel          context.CancelFunc
	done            chan struct{}
}

// New creates an idle session. The accumulator is allocated here so an
// unsupported algorithm is reported before anything runs.
func New(src ports.InputSource, alg domain.Algorithm, opts Options) (*Session, error) {
	if opts.ChunkSize == 0 {
		return nil, services.NewEngineError("create session", scheduler.ErrInvalidChunkSize)
	}

	acc, err := digest.New(alg)
	if err != nil {
		return nil, services.NewEngineError("create session", err)
	}

	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.New(opts.Logger)
	}

	return &Session{
		source:    src,
		algorithm: alg,
		plan:      domain.NewChunkPlan(src.TotalBytes(), opts.ChunkSize),
		opts:      opts,
		log:       opts.Logger.With("source", src.Name(), "algorithm", alg.String()),
		status:    domain.StatusIdle,
		acc:       acc,
		done:      make(chan struct{}),
	}, nil
}

// Start moves an idle session to Running and hashes on a new goroutine.
// Cancelling ctx cancels the session.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()

	switch {
	case s.status == domain.StatusRunning:
		s.mu.Unlock()
		return services.NewEngineError("start session", domain.ErrSessionAlreadyRunning)
	case s.status.IsTerminal():
		s.mu.Unlock()
		return services.NewEngineError("start session", domain.ErrSessionTerminated)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.status = domain.StatusRunning
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Infow("session started", "bytes", s.plan.TotalBytes, "chunks", s.plan.TotalChunks, "chunkSize", s.plan.ChunkSize)
	s.notify(snap)

	go s.run(runCtx)
	return nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.cancel()

	outcome := s.opts.Scheduler.Run(ctx, scheduler.Job{
		Source:      s.source,
		Accumulator: s.acc,
		ChunkSize:   s.plan.ChunkSize,
		Listeners: scheduler.Listeners{
			OnProgress: s.onProgress,
			OnComplete: s.onComplete,
			OnError:    s.onError,
		},
	})

	if outcome == scheduler.OutcomeCancelled {
		s.onCancelled()
	}
}

func (s *Session) onProgress(processed, total uint64) {
	s.mu.Lock()
	if s.cancelRequested {
		s.mu.Unlock()
		return
	}

	s.processed = processed
	s.percent = domain.ProgressPercent(processed, total)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) onComplete(sum []byte) {
	s.mu.Lock()
	if s.cancelRequested {
		// Cancel raced with the last chunk; the caller asked for no result.
		s.mu.Unlock()
		s.onCancelled()
		return
	}

	s.status = domain.StatusComplete
	s.digestHex = digest.Hex(sum)
	s.acc = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Infow("session complete", "digest", snap.DigestHex)
	s.notify(snap)
}

func (s *Session) onError(err error) {
	s.mu.Lock()
	if s.cancelRequested {
		s.mu.Unlock()
		s.onCancelled()
		return
	}

	s.status = domain.StatusFailed
	s.err = err
	s.acc = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Errorw("session failed", "kind", snap.ErrorKind, "error", err)
	s.notify(snap)
}

func (s *Session) onCancelled() {
	s.mu.Lock()
	if s.status.IsTerminal() {
		s.mu.Unlock()
		return
	}

	s.status = domain.StatusCancelled
	s.acc = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Infow("session cancelled", "processedChunks", snap.ProcessedChunks)
	s.notify(snap)
}

// Cancel asks a running session to stop. The status turns Cancelled once the
// scheduler reaches the next chunk boundary; no progress is published after
// Cancel returns. Cancel is a no-op for sessions that are not running.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.StatusRunning || s.cancelRequested {
		return
	}

	s.cancelRequested = true
	s.cancel()
}

// Wait blocks until the session is terminal or ctx is done.
// Waiting on a session that was never started returns immediately.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.RLock()
	idle := s.status == domain.StatusIdle
	s.mu.RUnlock()

	if idle {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when a started session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Status() domain.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Session) Algorithm() domain.Algorithm {
	return s.algorithm
}

func (s *Session) Source() ports.InputSource {
	return s.source
}

// Err returns the failure of a Failed session.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Status:          s.status,
		Algorithm:       s.algorithm,
		Source:          s.source.Name(),
		TotalBytes:      s.plan.TotalBytes,
		ProcessedChunks: s.processed,
		TotalChunks:     s.plan.TotalChunks,
		ProgressPercent: s.percent,
		DigestHex:       s.digestHex,
	}

	if s.err != nil {
		snap.ErrorKind = domain.KindOf(s.err)
		snap.Error = s.err.Error()
	}

	return snap
}

func (s *Session) notify(snap domain.Snapshot) {
	if s.opts.Listeners.OnChange != nil {
		s.opts.Listeners.OnChange(snap)
	}
}
