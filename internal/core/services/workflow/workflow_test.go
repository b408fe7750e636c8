package workflow_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iamNilotpal/hashflow/internal/adapters/source"
	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/domain/config"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/iamNilotpal/hashflow/internal/core/services/workflow"
	"github.com/iamNilotpal/hashflow/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 5 * time.Second

// blockingSource serves zeros and blocks every read until released.
type blockingSource struct {
	size    uint64
	started chan struct{}
	release chan struct{}
}

func newBlockingSource(size uint64) *blockingSource {
	return &blockingSource{size: size, started: make(chan struct{}, 64), release: make(chan struct{})}
}

func (b *blockingSource) TotalBytes() uint64      { return b.size }
func (b *blockingSource) Name() string            { return "blocking" }
func (b *blockingSource) Kind() domain.SourceKind { return domain.SourceText }

func (b *blockingSource) ReadChunk(ctx context.Context, offset uint64, maxLen uint32) ([]byte, error) {
	b.started <- struct{}{}

	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return make([]byte, min(uint64(maxLen), b.size-offset)), nil
}

// stubbornSource ignores cancellation and blocks every read until released.
// It records the highest number of reads that overlapped.
type stubbornSource struct {
	size     uint64
	started  chan struct{}
	release  chan struct{}
	inflight atomic.Int32
	peak     atomic.Int32
}

func newStubbornSource(size uint64) *stubbornSource {
	return &stubbornSource{size: size, started: make(chan struct{}, 64), release: make(chan struct{})}
}

func (s *stubbornSource) TotalBytes() uint64      { return s.size }
func (s *stubbornSource) Name() string            { return "stubborn" }
func (s *stubbornSource) Kind() domain.SourceKind { return domain.SourceText }

func (s *stubbornSource) ReadChunk(_ context.Context, offset uint64, maxLen uint32) ([]byte, error) {
	n := s.inflight.Add(1)
	defer s.inflight.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	s.started <- struct{}{}
	<-s.release

	return make([]byte, min(uint64(maxLen), s.size-offset)), nil
}

func newController(t *testing.T, opts *workflow.Options) *workflow.Controller {
	t.Helper()

	c, err := workflow.New(opts)
	require.NoError(t, err)
	return c
}

// toCompute selects src and alg and walks to the Compute step.
func toCompute(t *testing.T, c *workflow.Controller, src ports.InputSource, alg domain.Algorithm) {
	t.Helper()

	require.NoError(t, c.SelectInput(src))
	require.NoError(t, c.Advance())
	require.NoError(t, c.SelectAlgorithm(alg))
	require.NoError(t, c.Advance())
}

func compute(t *testing.T, c *workflow.Controller) domain.Snapshot {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	require.NoError(t, c.RequestCompute(ctx))
	require.NoError(t, c.Wait(ctx))
	return c.Progress()
}

func TestController_abc_sha256_end_to_end(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	toCompute(t, c, source.NewText("abc"), domain.SHA256)

	snap := compute(t, c)

	assert.Equal(t, domain.StatusComplete, snap.Status)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", snap.DigestHex)
	assert.Equal(t, float64(100), snap.ProgressPercent)

	state := c.State()
	assert.Equal(t, domain.StepCompute, state.Step)
	assert.Equal(t, source.DefaultTextName, state.Source)
	assert.Equal(t, domain.SourceText, state.SourceKind)
	require.NotNil(t, state.Session)
	assert.Equal(t, snap.DigestHex, state.Session.DigestHex)
}

func TestController_default_algorithm_is_md5(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)

	assert.Equal(t, domain.MD5, c.State().Algorithm)
	assert.Equal(t, domain.StepSelectInput, c.State().Step)
}

func TestController_advance_requires_input(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)

	err := c.Advance()

	assert.ErrorIs(t, err, domain.ErrNoInputSelected)
	assert.Equal(t, domain.KindWorkflow, domain.KindOf(err))
	assert.Equal(t, domain.StepSelectInput, c.State().Step)
}

func TestController_navigation_is_linear_and_bounded(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	c.Back()
	assert.Equal(t, domain.StepSelectInput, c.State().Step)

	require.NoError(t, c.SelectInput(source.NewText("abc")))
	require.NoError(t, c.Advance())
	assert.Equal(t, domain.StepSelectAlgorithm, c.State().Step)
	require.NoError(t, c.Advance())
	assert.Equal(t, domain.StepCompute, c.State().Step)
	require.NoError(t, c.Advance())
	assert.Equal(t, domain.StepCompute, c.State().Step)

	c.Back()
	assert.Equal(t, domain.StepSelectAlgorithm, c.State().Step)
}

func TestController_select_input_outside_first_step(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	require.NoError(t, c.SelectInput(source.NewText("abc")))
	require.NoError(t, c.Advance())

	err := c.SelectInput(source.NewText("other"))

	assert.ErrorIs(t, err, domain.ErrWrongStep)
}

func TestController_select_nil_input(t *testing.T) {
	t.Parallel()

	err := newController(t, nil).SelectInput(nil)

	assert.ErrorIs(t, err, domain.ErrNoInputSelected)
}

func TestController_select_unsupported_algorithm(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)

	err := c.SelectAlgorithm(domain.Algorithm("WHIRLPOOL"))

	assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)
	assert.Equal(t, domain.MD5, c.State().Algorithm)
}

func TestController_request_compute_outside_compute_step(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	require.NoError(t, c.SelectInput(source.NewText("abc")))

	err := c.RequestCompute(context.Background())

	assert.ErrorIs(t, err, domain.ErrWrongStep)
	assert.Nil(t, c.State().Session)
}

func TestController_algorithm_switch_resets_progress(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	toCompute(t, c, source.NewText("abc"), domain.MD5)
	done := compute(t, c)
	require.Equal(t, domain.StatusComplete, done.Status)

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	require.NoError(t, c.SelectAlgorithm(domain.SHA1))

	snap := c.Progress()
	assert.Equal(t, domain.StatusIdle, snap.Status)
	assert.Equal(t, domain.SHA1, snap.Algorithm)
	assert.Zero(t, snap.ProgressPercent)
	assert.Zero(t, snap.ProcessedChunks)
	assert.Empty(t, snap.DigestHex)
	assert.Nil(t, c.State().Session)

	select {
	case got := <-updates:
		assert.Equal(t, domain.StatusIdle, got.Status)
		assert.Zero(t, got.ProgressPercent)
	case <-time.After(waitFor):
		t.Fatal("no reset notification")
	}

	again := compute(t, c)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", again.DigestHex)
}

func TestController_same_algorithm_keeps_result(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	toCompute(t, c, source.NewText("abc"), domain.SHA256)
	compute(t, c)

	require.NoError(t, c.SelectAlgorithm(domain.SHA256))

	assert.Equal(t, domain.StatusComplete, c.Progress().Status)
}

func TestController_changes_rejected_while_running(t *testing.T) {
	t.Parallel()

	src := newBlockingSource(3 * config.MinChunkSize)
	c := newController(t, &workflow.Options{Chunks: config.UniformChunkConfig(config.MinChunkSize)})
	toCompute(t, c, src, domain.SHA256)

	require.NoError(t, c.RequestCompute(context.Background()))
	<-src.started
	first := c.State().Session

	assert.ErrorIs(t, c.SelectAlgorithm(domain.SHA1), domain.ErrSessionRunning)
	assert.NoError(t, c.RequestCompute(context.Background()))
	assert.Equal(t, first.Status, c.State().Session.Status)
	assert.Equal(t, domain.SHA256, c.State().Algorithm)

	c.Back()
	c.Back()
	assert.ErrorIs(t, c.SelectInput(source.NewText("abc")), domain.ErrSessionRunning)

	c.Cancel()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, c.Wait(ctx))

	snap := c.Progress()
	assert.Equal(t, domain.StatusCancelled, snap.Status)
	assert.Empty(t, snap.DigestHex)

	require.NoError(t, c.SelectInput(source.NewText("abc")))
	assert.Nil(t, c.State().Session)
}

func TestController_empty_input_warns_and_hashes(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	toCompute(t, c, source.NewText(""), domain.SHA256)

	assert.ErrorIs(t, c.State().Warning, domain.ErrEmptySource)

	snap := compute(t, c)
	assert.Equal(t, domain.StatusComplete, snap.Status)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", snap.DigestHex)
	assert.Equal(t, float64(100), snap.ProgressPercent)
}

func TestController_failure_survives_navigation(t *testing.T) {
	t.Parallel()

	pa := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(pa, []byte("soon gone"), 0o600))
	src, err := source.NewFile(pa)
	require.NoError(t, err)
	require.NoError(t, os.Remove(pa))

	c := newController(t, nil)
	toCompute(t, c, src, domain.SHA512)

	snap := compute(t, c)
	require.Equal(t, domain.StatusFailed, snap.Status)
	assert.Equal(t, domain.KindSourceRead, snap.ErrorKind)
	assert.True(t, snap.ErrorKind.IsRetryable())

	c.Back()
	require.NoError(t, c.Advance())

	state := c.State()
	require.NotNil(t, state.Session)
	assert.Equal(t, domain.StatusFailed, state.Session.Status)
	assert.Equal(t, snap.Error, state.Session.Error)
}

func TestController_reset(t *testing.T) {
	t.Parallel()

	c := newController(t, &workflow.Options{DefaultAlgorithm: domain.SHA384})
	toCompute(t, c, source.NewText("abc"), domain.SHA1)
	compute(t, c)

	c.Reset()

	state := c.State()
	assert.Equal(t, domain.StepSelectInput, state.Step)
	assert.Empty(t, state.Source)
	assert.Equal(t, domain.SHA384, state.Algorithm)
	assert.Nil(t, state.Session)
	assert.Equal(t, domain.StatusIdle, c.Progress().Status)
	assert.ErrorIs(t, c.Advance(), domain.ErrNoInputSelected)
}

func TestController_reset_cancels_running_session(t *testing.T) {
	t.Parallel()

	src := newBlockingSource(2 * config.MinChunkSize)
	c := newController(t, &workflow.Options{Chunks: config.UniformChunkConfig(config.MinChunkSize)})
	toCompute(t, c, src, domain.MD5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.RequestCompute(ctx))
	<-src.started

	c.Reset()
	assert.Nil(t, c.State().Session)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), waitFor)
	defer waitCancel()
	require.NoError(t, c.Wait(waitCtx))
	require.NoError(t, c.SelectInput(source.NewText("abc")))
}

func TestController_reset_blocks_same_source_until_session_stops(t *testing.T) {
	t.Parallel()

	src := newStubbornSource(2 * config.MinChunkSize)
	c := newController(t, &workflow.Options{Chunks: config.UniformChunkConfig(config.MinChunkSize)})
	toCompute(t, c, src, domain.SHA256)

	require.NoError(t, c.RequestCompute(context.Background()))
	<-src.started

	c.Reset()

	assert.ErrorIs(t, c.SelectInput(src), domain.ErrSessionRunning)
	assert.ErrorIs(t, c.SelectAlgorithm(domain.SHA1), domain.ErrSessionRunning)
	assert.Equal(t, domain.StepSelectInput, c.State().Step)

	close(src.release)
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, c.Wait(ctx))

	toCompute(t, c, src, domain.SHA256)
	snap := compute(t, c)

	assert.Equal(t, domain.StatusComplete, snap.Status)
	assert.Equal(t, int32(1), src.peak.Load())
}

func TestController_stale_reset_never_hides_newer_session(t *testing.T) {
	t.Parallel()

	c := newController(t, nil)
	toCompute(t, c, source.NewText("abc"), domain.MD5)
	compute(t, c)

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	algs := []domain.Algorithm{domain.SHA1, domain.SHA256, domain.MD5}
	for i := range 100 {
		ctx, cancel := context.WithTimeout(context.Background(), waitFor)

		switched := make(chan struct{})
		go func() {
			defer close(switched)
			_ = c.SelectAlgorithm(algs[i%len(algs)])
		}()
		require.NoError(t, c.RequestCompute(ctx))
		<-switched
		require.NoError(t, c.Wait(ctx))
		cancel()

		want := c.Progress()
		if want.Status == domain.StatusIdle {
			// The switch discarded the new session; compute once more.
			want = compute(t, c)
		}

		var last domain.Snapshot
		deadline := time.After(waitFor)
		for last.Status != want.Status || last.Algorithm != want.Algorithm {
			select {
			case last = <-updates:
			case <-deadline:
				t.Fatalf("round %d: latest update %s/%s, want %s/%s",
					i, last.Status, last.Algorithm, want.Status, want.Algorithm)
			}
		}

		select {
		case extra := <-updates:
			t.Fatalf("round %d: update %s/%s after completion", i, extra.Status, extra.Algorithm)
		default:
		}
	}
}

func TestController_subscribe_sees_completion(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("hashflow", 8*1024)
	c := newController(t, &workflow.Options{Chunks: config.UniformChunkConfig(config.MinChunkSize)})
	toCompute(t, c, source.NewText(text), domain.SHA224)

	updates, unsubscribe := c.Subscribe()
	require.NoError(t, c.RequestCompute(context.Background()))

	timeout := time.After(waitFor)
	var last domain.Snapshot
	for last.Status != domain.StatusComplete {
		select {
		case last = <-updates:
			assert.LessOrEqual(t, last.ProcessedChunks, uint64(16))
		case <-timeout:
			t.Fatal("no completion notification")
		}
	}

	assert.Equal(t, uint64(16), last.TotalChunks)
	assert.Equal(t, uint64(16), last.ProcessedChunks)
	assert.Len(t, last.DigestHex, domain.SHA224.HexLength())

	unsubscribe()
	unsubscribe()
	_, open := <-updates
	assert.False(t, open)
}

func TestController_wait_without_session(t *testing.T) {
	t.Parallel()

	assert.NoError(t, newController(t, nil).Wait(context.Background()))
}

func TestNew_validates_options(t *testing.T) {
	t.Parallel()

	_, err := workflow.New(&workflow.Options{DefaultAlgorithm: domain.Algorithm("CRC32")})
	assert.True(t, errors.IsValidationError(err))
	assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)

	_, err = workflow.New(&workflow.Options{Chunks: &config.ChunkConfig{FileChunkSize: 1, TextChunkSize: config.TextChunkSize}})
	var cve *config.ChunkValidationError
	require.ErrorAs(t, err, &cve)
	assert.Equal(t, "FileChunkSize", cve.Field)
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := workflow.DefaultOptions()

	assert.Equal(t, domain.MD5, opts.DefaultAlgorithm)
	assert.Equal(t, uint32(config.FileChunkSize), opts.Chunks.ChunkSizeFor(domain.SourceFile))
	assert.Equal(t, uint32(config.TextChunkSize), opts.Chunks.ChunkSizeFor(domain.SourceText))
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.Scheduler)
}
