package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// utf8BOM lets spreadsheet programs detect the encoding of the CSV file.
const utf8BOM = "\ufeff"

// CSVOptions controls the CSV dialect.
type CSVOptions struct {
	// Delimiter separates fields. Zero means ';'.
	Delimiter rune
	// BOM prefixes the output with a UTF-8 byte order mark.
	BOM bool
}

// DefaultCSVOptions matches what spreadsheet programs in comma-decimal
// locales open without an import dialog.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ';', BOM: true}
}

// MaterialsCSV writes one header row and one row per material, in the
// order given.
func MaterialsCSV(w io.Writer, materials []types.Material, opts CSVOptions) error {
	if opts.BOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return fmt.Errorf("writing byte order mark: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	if err := cw.Write(materialColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, m := range materials {
		record := []string{
			strconv.FormatInt(m.ID, 10),
			m.Name,
			m.Quantity.String(),
			strconv.FormatInt(m.CriticalThreshold, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing material %d: %w", m.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
