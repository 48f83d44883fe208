package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func printMaterials(w io.Writer, materials []types.Material) error {
	tw := newTable(w, "ID", "NAME", "QUANTITY", "THRESHOLD", "STATUS")
	for _, m := range materials {
		status := "ok"
		if m.IsCritical() {
			status = "CRITICAL"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", m.ID, m.Name, m.Quantity, m.CriticalThreshold, status)
	}
	return tw.Flush()
}

func printRecipe(w io.Writer, lines []types.RecipeLine) error {
	tw := newTable(w, "MATERIAL_ID", "MATERIAL", "PER_UNIT")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", l.MaterialID, l.MaterialName, l.AmountPerUnit)
	}
	return tw.Flush()
}

func printHistory(w io.Writer, entries []types.AuditEntry) error {
	tw := newTable(w, "ID", "TIME", "ACTION", "DELTA", "DESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Kind, e.QuantityDelta, e.Description)
	}
	return tw.Flush()
}

func printReceipt(w io.Writer, r *types.OrderReceipt) error {
	fmt.Fprintf(w, "Order %s: %s x %s fulfilled\n", r.OrderID, r.OrderQuantity, r.ProductName)
	tw := newTable(w, "MATERIAL", "CONSUMED", "REMAINING")
	for _, c := range r.Consumed {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.MaterialName, c.Amount, c.Remaining)
	}
	return tw.Flush()
}

// parseID parses a positive material id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid material id %q", s)
	}
	return id, nil
}

func parseDecimal(what, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", what, s)
	}
	return d, nil
}
