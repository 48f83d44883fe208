package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newRecipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipe",
		Aliases: []string{"recipes", "r"},
		Short:   "Manage product recipes",
		Long: "A recipe lists how much of each material one unit of a product consumes.\n" +
			"A product has a recipe as long as it has at least one component.",
	}
	cmd.AddCommand(
		a.newRecipeListCmd(),
		a.newRecipeShowCmd(),
		a.newRecipeSetCmd(),
		a.newRecipeRemoveCmd(),
		a.newRecipeDeleteCmd(),
	)
	return cmd
}

func (a *app) newRecipeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products that have a recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.ledger()
			if err != nil {
				return err
			}
			names, err := l.ListRecipeNames(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), names)
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (a *app) newRecipeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show PRODUCT",
		Short: "Show the components of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.ledger()
			if err != nil {
				return err
			}
			lines, err := l.GetRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), lines)
			}
			if len(lines) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No recipe for %q\n", args[0])
				return nil
			}
			return printRecipe(cmd.OutOrStdout(), lines)
		},
	}
}

func (a *app) newRecipeSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set PRODUCT MATERIAL_ID AMOUNT",
		Short:   "Set how much of a material one unit of PRODUCT uses",
		Example: `  stockpile recipe set "Shirt" 1 1.5`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			amount, err := parseDecimal("amount", args[2])
			if err != nil {
				return err
			}
			l, err := a.ledger()
			if err != nil {
				return err
			}
			if err := l.SetComponent(cmd.Context(), args[0], id, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: material %d x %s per unit\n", args[0], id, amount)
			return nil
		},
	}
}

func (a *app) newRecipeRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove PRODUCT MATERIAL_ID",
		Short: "Remove one material from a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			l, err := a.ledger()
			if err != nil {
				return err
			}
			if err := l.RemoveComponent(cmd.Context(), args[0], id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: material %d removed\n", args[0], id)
			return nil
		},
	}
}

func (a *app) newRecipeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PRODUCT",
		Short: "Delete every component of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.ledger()
			if err != nil {
				return err
			}
			if err := l.DeleteRecipe(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recipe %q deleted\n", args[0])
			return nil
		},
	}
}
