package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockpile/internal/export"
)

func (a *app) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, clear or export the audit history",
	}
	cmd.AddCommand(
		a.newHistoryListCmd(),
		a.newHistoryClearCmd(),
		a.newHistoryExportCmd(),
	)
	return cmd
}

func (a *app) newHistoryListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the newest audit entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("invalid limit %d", limit)
			}
			l, err := a.ledger()
			if err != nil {
				return err
			}
			entries, err := l.ListHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			return printHistory(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries (default: history_limit from config)")
	return cmd
}

func (a *app) newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every audit entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.ledger()
			if err != nil {
				return err
			}
			if err := l.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

func (a *app) newHistoryExportCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the audit history to FILE as JSON Lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.ledger()
			if err != nil {
				return err
			}
			entries, err := l.ListHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if err := export.AuditJSONL(args[0], entries); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), args[0])
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries (default: history_limit from config)")
	return cmd
}
