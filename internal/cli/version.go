package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockpile/pkg/stockpile"
)

const modulePath = "github.com/mesh-intelligence/stockpile"

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stockpile version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version": stockpile.Version,
					"module":  modulePath,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stockpile v%s\nmodule: %s\n", stockpile.Version, modulePath)
			return nil
		},
	}
}
