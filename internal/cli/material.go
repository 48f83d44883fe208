package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newMaterialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "material",
		Aliases: []string{"materials", "m"},
		Short:   "Manage raw materials and their stock",
	}
	cmd.AddCommand(
		a.newMaterialListCmd(),
		a.newMaterialAddCmd(),
		a.newMaterialRemoveCmd(),
		a.newMaterialAdjustCmd(),
	)
	return cmd
}

func (a *app) newMaterialListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List materials, critical ones first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.ledger()
			if err != nil {
				return err
			}
			materials, err := l.SearchMaterials(cmd.Context(), search)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), materials)
			}
			return printMaterials(cmd.OutOrStdout(), materials)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only materials whose name contains this text")
	return cmd
}

func (a *app) newMaterialAddCmd() *cobra.Command {
	var (
		name      string
		quantity  string
		threshold int64
	)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a material with its initial stock",
		Example: `  stockpile material add --name "White Fabric (metre)" --quantity 100 --threshold 20`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qty, err := parseDecimal("quantity", quantity)
			if err != nil {
				return err
			}
			l, err := a.ledger()
			if err != nil {
				return err
			}
			m, err := l.AddMaterial(cmd.Context(), name, qty, threshold)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), m)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added material %d: %s (%s)\n", m.ID, m.Name, m.Quantity)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "material name (required)")
	cmd.Flags().StringVar(&quantity, "quantity", "0", "initial stock")
	cmd.Flags().Int64Var(&threshold, "threshold", 0, "critical stock threshold")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) newMaterialRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a material and every recipe component using it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := a.ledger()
			if err != nil {
				return err
			}
			if err := l.RemoveMaterial(cmd.Context(), id); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"removed": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed material %d\n", id)
			return nil
		},
	}
}

func (a *app) newMaterialAdjustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adjust ID DELTA",
		Short: "Add to or subtract from a material's stock",
		Long: "Adjust stock by DELTA. A negative DELTA must follow \"--\" so that it is\n" +
			"not read as a flag.",
		Example: "  stockpile material adjust 3 25\n  stockpile material adjust 3 -- -4.5",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			delta, err := parseDecimal("delta", args[1])
			if err != nil {
				return err
			}
			l, err := a.ledger()
			if err != nil {
				return err
			}
			m, err := l.AdjustStock(cmd.Context(), id, delta)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), m)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", m.Name, m.Quantity)
			return nil
		},
	}
}

func (a *app) newCriticalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "critical",
		Short: "List materials at or below their critical threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.ledger()
			if err != nil {
				return err
			}
			materials, err := l.ListMaterials(cmd.Context())
			if err != nil {
				return err
			}
			// Critical materials sort first, so the critical set is a prefix.
			n := 0
			for n < len(materials) && materials[n].IsCritical() {
				n++
			}
			critical := materials[:n]

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), critical)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No critical materials")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d critical material(s)\n", n)
			return printMaterials(cmd.OutOrStdout(), critical)
		},
	}
}
