package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iamNilotpal/hashflow/internal/adapters/source"
	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/ports"
	"github.com/iamNilotpal/hashflow/internal/core/services/workflow"
	"github.com/iamNilotpal/hashflow/pkg/system"
	"github.com/spf13/cobra"
)

// StdinName labels text read from standard input.
const StdinName = "-"

// ErrCancelled is returned when the computation stopped before completing.
var ErrCancelled = errors.New("computation cancelled")

func fileCommand(ro *RootOptions) *cobra.Command {
	var zstd bool

	cmd := &cobra.Command{
		Use:   "file PATH",
		Short: "Compute the digest of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compute(cmd, ro, func() (ports.InputSource, error) {
				if zstd {
					return source.NewZstdFile(args[0])
				}
				return source.NewFile(args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&zstd, "zstd", false, "hash the decompressed payload of a zstd file")

	return cmd
}

func textCommand(ro *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "text [TEXT]",
		Short: "Compute the digest of a text argument, or of stdin when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compute(cmd, ro, func() (ports.InputSource, error) {
				if len(args) == 1 {
					return source.NewText(args[0]), nil
				}

				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return nil, fmt.Errorf("%w: stdin: %w", domain.ErrSourceOpen, err)
				}
				return source.NewNamedText(StdinName, string(data)), nil
			})
		},
	}
}

// compute walks the workflow the way an interactive front end would:
// select the input, select the algorithm, then compute.
func compute(cmd *cobra.Command, ro *RootOptions, open func() (ports.InputSource, error)) error {
	set, err := ro.resolve(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = set.log.Sync() }()

	ctrl, err := workflow.New(&workflow.Options{
		Chunks:           set.chunks,
		DefaultAlgorithm: set.algorithm,
		Logger:           set.log,
	})
	if err != nil {
		return err
	}

	src, err := open()
	if err != nil {
		return err
	}

	if err := ctrl.SelectInput(src); err != nil {
		return err
	}
	if warning := ctrl.State().Warning; warning != nil {
		set.log.Warnw("input is empty", "source", src.Name(), "warning", warning)
	}
	if err := ctrl.Advance(); err != nil {
		return err
	}
	if err := ctrl.SelectAlgorithm(set.algorithm); err != nil {
		return err
	}
	if err := ctrl.Advance(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ro.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ro.Timeout)
		defer cancel()
	}

	stopProgress := func() {}
	if ro.Progress && !ro.JSON {
		stopProgress = reportProgress(cmd.ErrOrStderr(), ctrl)
	}

	runErr := system.RunWithContext(ctx, func(opCtx context.Context) error {
		if err := ctrl.RequestCompute(opCtx); err != nil {
			return err
		}
		// Cancelling opCtx cancels the session, so this always returns.
		return ctrl.Wait(context.Background())
	})
	stopProgress()

	snap := ctrl.Progress()
	if snap.Status == domain.StatusIdle && runErr != nil {
		// The session never started.
		return runErr
	}

	if err := writeResult(cmd.OutOrStdout(), ro, snap); err != nil {
		return err
	}

	switch snap.Status {
	case domain.StatusComplete:
		return nil
	case domain.StatusFailed:
		return ctrl.Err()
	default:
		if runErr != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, runErr)
		}
		return ErrCancelled
	}
}
