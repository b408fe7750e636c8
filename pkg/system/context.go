// Package system holds process level helpers shared by the commands.
package system

import (
	"context"
	"errors"
)

// Runs operation with context awareness. The operation gets its own context,
// which is cancelled when ctx ends, and is always allowed to wind down before
// RunWithContext returns, so whatever it owns is released on every path.
//
// Returns:
//   - ctx.Err() if ctx was already done before starting.
//   - the operation's error if it finished on its own.
//   - the operation's error joined with ctx.Err() if it was interrupted.
func RunWithContext(ctx context.Context, operation func(context.Context) error) error {
	// Fast feedback when the caller gave up before we started.
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered so the goroutine can always deliver and exit.
	done := make(chan error, 1)
	go func() {
		done <- operation(opCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// Signal the operation to stop and wait for it to finish.
		cancel()
		err := <-done
		if errors.Is(err, ctx.Err()) {
			return err
		}
		return errors.Join(err, ctx.Err())
	}
}
