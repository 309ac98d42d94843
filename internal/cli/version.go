package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saffen/thelionsroar/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version info",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "The Lion's Roar publisher\n")
			fmt.Fprintf(cmd.OutOrStdout(), " - version: %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), " - git: %s\n", version.GetShortCommit())
			fmt.Fprintf(cmd.OutOrStdout(), " - built: %s\n", version.BuildDate)
			return nil
		},
	}
}
