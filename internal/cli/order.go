package cli

import "github.com/spf13/cobra"

func (a *app) newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order PRODUCT QUANTITY",
		Short: "Fulfill an order, consuming the recipe's materials",
		Long: "Check every component of PRODUCT's recipe against stock and, if all are\n" +
			"sufficient, deduct QUANTITY units' worth in one transaction. Otherwise\n" +
			"nothing changes and every shortage is reported.",
		Example: `  stockpile order "Shirt" 3
  stockpile order "Shirt" 2.5`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseDecimal("order quantity", args[1])
			if err != nil {
				return err
			}
			l, err := a.ledger()
			if err != nil {
				return err
			}
			receipt, err := l.FulfillOrder(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), receipt)
			}
			return printReceipt(cmd.OutOrStdout(), receipt)
		},
	}
}
