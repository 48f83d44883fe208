package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockpile/internal/export"
)

func (a *app) newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export materials to a CSV or XLSX file",
		Long: "Write every material, in listing order, to FILE. The format follows the\n" +
			"file extension unless --format is given. CSV uses csv_delimiter and csv_bom\n" +
			"from config.yaml.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f := export.FormatFromPath(path)
			if format != "" {
				var err error
				if f, err = export.ParseFormat(format); err != nil {
					return err
				}
			}
			csvOpts, err := a.csvOptions()
			if err != nil {
				return systemErr(err)
			}

			l, err := a.ledger()
			if err != nil {
				return err
			}
			materials, err := l.ListMaterials(cmd.Context())
			if err != nil {
				return err
			}

			out, err := os.Create(path)
			if err != nil {
				return systemErr(fmt.Errorf("create export file: %w", err))
			}
			switch f {
			case export.FormatXLSX:
				err = export.MaterialsXLSX(out, materials)
			default:
				err = export.MaterialsCSV(out, materials, csvOpts)
			}
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(path)
				return systemErr(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d materials to %s (%s)\n", len(materials), path, f)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "csv or xlsx (default: from file extension)")
	return cmd
}
