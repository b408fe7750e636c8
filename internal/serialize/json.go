// Package serialize encodes snapshots and workflow state for the CLI.
package serialize

import (
	"github.com/goccy/go-json"
)

// MarshalIndentJSON encodes data with two space indentation and a
// trailing newline, for terminal output.
func MarshalIndentJSON(data any) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
