// Package export writes read-only snapshots of ledger data: materials as
// CSV or XLSX, and the audit history as JSON Lines.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an export file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// materialColumns is the header row shared by the CSV and XLSX exports.
var materialColumns = []string{"id", "name", "quantity", "critical_threshold"}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or xlsx)", s)
}

// FormatFromPath picks a format from the file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}
