// Package table holds the in-memory tabular model every pipeline stage
// operates on: an ordered set of named columns over rows of loosely typed
// cells (numeric, text, or nil).
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row maps column names to cell values. Cells are float64, int64, string,
// bool, or nil depending on what the source handed us.
type Row map[string]any

// Table is an ordered collection of rows sharing one column set.
// Column names are unique; FromRecords collapses duplicates on ingest.
type Table struct {
	cols []string
	Rows []Row
}

// New returns an empty table with the given column order.
// Duplicate names are collapsed to their first occurrence.
func New(columns []string) *Table {
	t := &Table{}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			continue
		}
		seen[c] = true
		t.cols = append(t.cols, c)
	}
	return t
}

// FromRecords builds a table from a header and positional records, collapsing
// duplicate column names to their first occurrence. It returns the table and
// the number of collapsed duplicates. Short records are padded with nil;
// surplus cells beyond the header are ignored.
func FromRecords(header []string, records [][]any) (*Table, int) {
	t := New(header)
	collapsed := len(header) - len(t.cols)
	keep := make([]int, 0, len(t.cols))
	seen := make(map[string]bool, len(t.cols))
	for i, c := range header {
		if seen[c] {
			continue
		}
		seen[c] = true
		keep = append(keep, i)
	}
	for _, rec := range records {
		row := make(Row, len(t.cols))
		for k, idx := range keep {
			if idx < len(rec) {
				row[t.cols[k]] = rec[idx]
			} else {
				row[t.cols[k]] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, collapsed
}

// Columns returns the column names in order. The slice is shared; callers
// must not mutate it.
func (t *Table) Columns() []string { return t.cols }

// Len returns the row count.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the order if it is not already present.
// Existing rows keep their (absent ⇒ nil) cells until written.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.cols = append(t.cols, name)
	}
}

// Missing returns the names from want that are absent from the table,
// preserving order.
func (t *Table) Missing(want []string) []string {
	var out []string
	for _, c := range want {
		if !t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Filter keeps only the rows for which keep returns true, in place.
func (t *Table) Filter(keep func(Row) bool) int {
	kept := t.Rows[:0]
	for _, r := range t.Rows {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	dropped := len(t.Rows) - len(kept)
	t.Rows = kept
	return dropped
}

// Float coerces a cell to float64. Non-numeric, missing, and non-finite
// values all coerce to 0 so downstream arithmetic never sees NaN or Inf.
func Float(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case []byte:
		return Float(string(x))
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// IsBlank reports whether a cell counts as missing for identifying columns:
// nil, or text that is empty or whitespace-only.
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return strings.TrimSpace(string(x)) == ""
	}
	return false
}

// Text renders a cell the way group keys and identifying cells display it.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
