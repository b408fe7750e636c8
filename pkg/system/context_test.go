package system_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iamNilotpal/hashflow/pkg/system"

	"github.com/stretchr/testify/assert"
)

func TestRunWithContext_returns_operation_result(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	assert.NoError(t, system.RunWithContext(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, system.RunWithContext(context.Background(), func(context.Context) error { return boom }), boom)
}

func TestRunWithContext_done_before_start(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := system.RunWithContext(ctx, func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRunWithContext_interrupt_waits_for_operation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	finished := false
	err := system.RunWithContext(ctx, func(opCtx context.Context) error {
		<-opCtx.Done()
		finished = true
		return nil
	})

	assert.True(t, finished)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
