// Package tabular parses and serializes plain comma-delimited tables.
//
// The verification engine emits unquoted CSV where no cell ever contains a
// comma, so rows split on plain commas with no quote or escape handling.
// Feeding RFC 4180 quoted content through this package will split quoted
// cells apart.
package tabular

import "strings"

// Table is a parsed comma-delimited table. Every cell is kept as a string;
// no type coercion is applied.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Parse splits text into a header and data rows.
//
// The first non-empty line becomes the header. Blank lines and rows whose
// cell count does not match the header are dropped without error, so a
// truncated trailing row never corrupts the table. Parsing its own
// Serialize output yields an equal Table.
func Parse(text string) Table {
	var table Table

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, ",")
		if table.Header == nil {
			table.Header = cells
			continue
		}

		if len(cells) != len(table.Header) {
			continue
		}
		table.Rows = append(table.Rows, cells)
	}

	if table.Rows == nil {
		table.Rows = [][]string{}
	}
	return table
}

// Serialize renders the table back to comma-delimited text with a trailing
// newline. An empty table serializes to an empty string.
func (t Table) Serialize() string {
	if t.Header == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(t.Header, ","))
	sb.WriteByte('\n')
	for _, row := range t.Rows {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Column returns the values of the column at idx across all rows.
// Returns nil when idx is out of range for the header.
func (t Table) Column(idx int) []string {
	if idx < 0 || idx >= len(t.Header) {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values
}

// IsEmpty reports whether the table has no header and no rows.
func (t Table) IsEmpty() bool {
	return t.Header == nil && len(t.Rows) == 0
}
