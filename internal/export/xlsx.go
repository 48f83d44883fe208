package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// MaterialsSheet is the name of the worksheet written by MaterialsXLSX.
const MaterialsSheet = "Materials"

// MaterialsXLSX writes a workbook with a single Materials sheet holding the
// same columns as the CSV export. Quantities are numeric cells.
func MaterialsXLSX(w io.Writer, materials []types.Material) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, MaterialsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(materialColumns))
	for i, c := range materialColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(MaterialsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, m := range materials {
		row := []interface{}{
			m.ID,
			m.Name,
			m.Quantity.InexactFloat64(),
			m.CriticalThreshold,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("locating row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(MaterialsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing material %d: %w", m.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
