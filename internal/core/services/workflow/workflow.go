// Package workflow sequences the user facing steps of a digest computation:
// select input, select algorithm, compute. It owns at most one session and
// discards it whenever the input or the algorithm changes.
package workflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/domain/config"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/iamNilotpal/hashflow/internal/core/services"
	"github.com/iamNilotpal/hashflow/internal/core/services/scheduler"
	"github.com/iamNilotpal/hashflow/internal/core/services/session"
	"go.uber.org/zap"
)

// Options configures a Controller. Every field is optional.
type Options struct {
	// Chunks selects the chunk size per source kind.
	Chunks *config.ChunkConfig

	// DefaultAlgorithm is selected initially and after Reset. MD5 when empty.
	DefaultAlgorithm domain.Algorithm

	// Scheduler is shared by every session of the controller.
	Scheduler *scheduler.Scheduler

	Logger *zap.SugaredLogger
}

// Controller is the step state machine driven by a UI or the CLI.
// It is safe for concurrent use.
type Controller struct {
	opts *Options
	log  *zap.SugaredLogger

	mu        sync.RWMutex
	step      domain.Step
	source    ports.InputSource
	algorithm domain.Algorithm
	session   *session.Session
	warning   error

	// draining is a session cancelled by Reset whose goroutine has not
	// returned yet. It still counts as running for its source.
	draining *session.Session

	// generation changes whenever the session is replaced or discarded, so
	// late notifications from an old session never reach subscribers.
	generation atomic.Uint64

	subsMu  sync.Mutex
	subs    map[uint64]chan domain.Snapshot
	nextSub uint64
}

// New creates a controller at the SelectInput step. A nil opts uses defaults.
func New(opts *Options) (*Controller, error) {
	if opts != nil {
		if err := Validate(opts); err != nil {
			return nil, err
		}
		opts = prepareDefaults(opts)
	} else {
		opts = DefaultOptions()
	}

	return &Controller{
		opts:      opts,
		log:       opts.Logger,
		step:      domain.StepSelectInput,
		algorithm: opts.DefaultAlgorithm,
		subs:      make(map[uint64]chan domain.Snapshot),
	}, nil
}

// SelectInput sets the input. It is only valid in the SelectInput step and
// not while a session runs. Any finished session is discarded. An empty
// source is accepted; State reports ErrEmptySource as a warning.
func (c *Controller) SelectInput(src ports.InputSource) error {
	if src == nil {
		return services.NewEngineError("select input", domain.ErrNoInputSelected)
	}

	c.mu.Lock()

	if c.step != domain.StepSelectInput {
		c.mu.Unlock()
		return services.NewEngineError("select input", domain.ErrWrongStep)
	}
	if c.runningLocked() {
		c.mu.Unlock()
		return services.NewEngineError("select input", domain.ErrSessionRunning)
	}

	c.source = src
	c.warning = nil
	if src.TotalBytes() == 0 {
		c.warning = domain.ErrEmptySource
	}
	gen, reset := c.discardLocked()
	c.mu.Unlock()

	c.log.Infow("input selected", "source", src.Name(), "kind", src.Kind().String(), "bytes", src.TotalBytes())
	c.publishIdle(gen, reset)
	return nil
}

// SelectAlgorithm changes the algorithm. It is valid in any step but not
// while a session runs. Switching discards a finished session, which resets
// the displayed progress to 0. Selecting the current algorithm is a no-op.
func (c *Controller) SelectAlgorithm(alg domain.Algorithm) error {
	if !alg.IsValid() {
		return services.NewEngineError("select algorithm", domain.ErrUnsupportedAlgorithm)
	}

	c.mu.Lock()

	if c.runningLocked() {
		c.mu.Unlock()
		return services.NewEngineError("select algorithm", domain.ErrSessionRunning)
	}
	if alg == c.algorithm {
		c.mu.Unlock()
		return nil
	}

	c.algorithm = alg
	gen, reset := c.discardLocked()
	c.mu.Unlock()

	c.log.Infow("algorithm selected", "algorithm", alg.String())
	c.publishIdle(gen, reset)
	return nil
}

// Advance moves to the next step. Leaving SelectInput needs a source;
// advancing from Compute does nothing.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step.IsLast() {
		return nil
	}
	if c.step == domain.StepSelectInput && c.source == nil {
		return services.NewEngineError("advance", domain.ErrNoInputSelected)
	}

	c.step++
	return nil
}

// Back moves to the previous step. The session, if any, is kept, so a
// finished result or failure is still there when the user returns.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step > domain.StepSelectInput {
		c.step--
	}
}

// RequestCompute starts a new session for the selected input and algorithm.
// It is only valid in the Compute step. If a session is already running the
// call does nothing. Cancelling ctx cancels the session.
func (c *Controller) RequestCompute(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != domain.StepCompute {
		return services.NewEngineError("request compute", domain.ErrWrongStep)
	}
	if c.source == nil {
		return services.NewEngineError("request compute", domain.ErrNoInputSelected)
	}
	if c.runningLocked() {
		return nil
	}

	gen := c.generation.Add(1)
	sess, err := session.New(c.source, c.algorithm, session.Options{
		ChunkSize: c.opts.Chunks.ChunkSizeFor(c.source.Kind()),
		Scheduler: c.opts.Scheduler,
		Logger:    c.log,
		Listeners: domain.SessionListeners{
			OnChange: func(snap domain.Snapshot) { c.publish(gen, snap) },
		},
	})
	if err != nil {
		return err
	}

	c.session = sess
	if err := sess.Start(ctx); err != nil && !errors.Is(err, domain.ErrSessionAlreadyRunning) {
		return err
	}

	return nil
}

// Cancel cancels the running session, if any.
func (c *Controller) Cancel() {
	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()

	if sess != nil {
		sess.Cancel()
	}
}

// Reset returns to SelectInput with no input and the default algorithm.
// A running session is cancelled and every session is discarded. Until the
// cancelled session has stopped reading, SelectInput, SelectAlgorithm and
// RequestCompute treat it as running.
func (c *Controller) Reset() {
	c.mu.Lock()

	if c.session != nil {
		c.session.Cancel()
		if c.session.Status() == domain.StatusRunning {
			c.draining = c.session
		}
	}

	c.step = domain.StepSelectInput
	c.source = nil
	c.warning = nil
	c.algorithm = c.opts.DefaultAlgorithm
	gen, reset := c.discardLocked()
	c.mu.Unlock()

	c.log.Infow("workflow reset")
	c.publishIdle(gen, reset)
}

// State returns a copy of the controller state.
func (c *Controller) State() domain.WorkflowState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := domain.WorkflowState{
		Step:      c.step,
		Algorithm: c.algorithm,
		Warning:   c.warning,
	}

	if c.source != nil {
		state.Source = c.source.Name()
		state.SourceKind = c.source.Kind()
	}

	if c.session != nil {
		snap := c.session.Snapshot()
		state.Session = &snap
	}

	return state
}

// Progress returns the current snapshot. Without a session it reports an
// idle snapshot at 0% for the selected input and algorithm.
func (c *Controller) Progress() domain.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session != nil {
		return c.session.Snapshot()
	}
	return c.idleSnapshotLocked()
}

// Err returns the failure of the current session, or nil.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return nil
	}
	return c.session.Err()
}

// Subscribe returns a channel that always holds the latest snapshot. Slow
// readers skip intermediate values and never block the computation. The
// returned function unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 1)

	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, id)
			close(ch)
			c.subsMu.Unlock()
		})
	}
}

// Wait blocks until the current session is terminal or ctx is done. After
// Reset it waits for the cancelled session to stop instead. It returns
// immediately when there is no started session.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.RLock()
	sess := c.session
	if sess == nil {
		sess = c.draining
	}
	c.mu.RUnlock()

	if sess == nil {
		return nil
	}
	return sess.Wait(ctx)
}

// runningLocked requires c.mu held for writing.
func (c *Controller) runningLocked() bool {
	if c.draining != nil {
		select {
		case <-c.draining.Done():
			c.draining = nil
		default:
			return true
		}
	}
	return c.session != nil && c.session.Status() == domain.StatusRunning
}

// discardLocked drops the session and returns the new generation with the
// snapshot subscribers should see instead, or nil when there was nothing
// to drop.
func (c *Controller) discardLocked() (uint64, *domain.Snapshot) {
	gen := c.generation.Add(1)

	if c.session == nil {
		return gen, nil
	}

	c.session = nil
	snap := c.idleSnapshotLocked()
	return gen, &snap
}

func (c *Controller) idleSnapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{Status: domain.StatusIdle, Algorithm: c.algorithm}

	if c.source != nil {
		plan := domain.NewChunkPlan(c.source.TotalBytes(), c.opts.Chunks.ChunkSizeFor(c.source.Kind()))
		snap.Source = c.source.Name()
		snap.TotalBytes = plan.TotalBytes
		snap.TotalChunks = plan.TotalChunks
	}

	return snap
}

func (c *Controller) publishIdle(gen uint64, snap *domain.Snapshot) {
	if snap != nil {
		c.publish(gen, *snap)
	}
}

func (c *Controller) publish(gen uint64, snap domain.Snapshot) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	if gen != c.generation.Load() {
		return
	}

	for _, ch := range c.subs {
		// Replace any unread value with the newest one.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
