package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/iamNilotpal/hashflow/internal/core/services/workflow"
	"github.com/iamNilotpal/hashflow/internal/serialize"
	"github.com/valyala/fasttemplate"
)

// writeResult prints snap as JSON when requested, otherwise renders the
// result template for a completed session.
func writeResult(w io.Writer, ro *RootOptions, snap domain.Snapshot) error {
	if ro.JSON {
		out, err := serialize.MarshalIndentJSON(snap)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	if snap.Status != domain.StatusComplete {
		return nil
	}

	line, err := renderLine(ro.Format, snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, line)
	return err
}

// renderLine fills the {{tag}} placeholders of format from snap.
// Unknown tags render empty.
func renderLine(format string, snap domain.Snapshot) (string, error) {
	tpl, err := fasttemplate.NewTemplate(format, "{{", "}}")
	if err != nil {
		return "", fmt.Errorf("invalid --format template: %w", err)
	}

	return tpl.ExecuteString(map[string]any{
		"digest":    snap.DigestHex,
		"source":    snap.Source,
		"algorithm": snap.Algorithm.String(),
		"bytes":     strconv.FormatUint(snap.TotalBytes, 10),
		"chunks":    strconv.FormatUint(snap.TotalChunks, 10),
	}), nil
}

// reportProgress writes a percentage line to w on every update until the
// returned stop function is called.
func reportProgress(w io.Writer, ctrl *workflow.Controller) (stop func()) {
	updates, unsubscribe := ctrl.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)

		printed := false
		for snap := range updates {
			if snap.Status == domain.StatusIdle {
				continue
			}
			fmt.Fprintf(w, "\r%s %s %5.1f%% (%d/%d)",
				snap.Algorithm, snap.Source, snap.ProgressPercent, snap.ProcessedChunks, snap.TotalChunks)
			printed = true
		}

		if printed {
			fmt.Fprintln(w)
		}
	}()

	return func() {
		unsubscribe()
		<-done
	}
}
