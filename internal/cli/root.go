// Package cli implements the hashflow command line.
package cli

import (
	"github.com/spf13/cobra"
)

// New builds the root command.
func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hashflow",
		Short: "Compute MD5, SHA-1, SHA-2 and SHA-3 digests of files and text with progress.",
		Long: `hashflow streams a file or a block of text through a digest algorithm in
bounded chunks, reporting progress as it goes.

Chunk sizes, the default algorithm and logging can be set in a YAML file:

  engine:
    file_chunk_size: 20971520
    text_chunk_size: 1048576
    default_algorithm: SHA256
  log:
    level: info
    format: text`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}
	ro.AddFlags(cmd)

	cmd.AddCommand(fileCommand(ro))
	cmd.AddCommand(textCommand(ro))
	cmd.AddCommand(algorithmsCommand())
	return cmd
}
