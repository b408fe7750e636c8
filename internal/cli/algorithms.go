package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
	"github.com/spf13/cobra"
)

func algorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported digest algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ALGORITHM\tBITS\tHEX LENGTH")

			for _, alg := range domain.Algorithms() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", alg, alg.DigestSize()*8, alg.HexLength())
			}

			return tw.Flush()
		},
	}
}
