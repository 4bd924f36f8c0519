package excel

// RawRowData maps header names to trimmed cell values.
type RawRowData map[string]string

// TableData is a header row plus data rows read from a CSV or XLSX file.
type TableData struct {
	Headers []string
	Rows    []RawRowData
}

// HasColumns reports whether every name appears in the header row.
func (t *TableData) HasColumns(names ...string) bool {
	seen := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		seen[h] = true
	}
	for _, n := range names {
		if !seen[n] {
			return false
		}
	}
	return true
}
