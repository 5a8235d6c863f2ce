// Package datatable implements the sort and pagination state behind data
// tables. A Table owns its records and view state; renderers only read from it.
package datatable

import (
	"fmt"
	"slices"
	"time"
)

// Record is one row, keyed by column key.
type Record map[string]any

// Column describes how a field is labelled, sorted, and displayed.
type Column struct {
	Key   string
	Label string
	// DisableSort makes the column display-only. Columns sort by default.
	DisableSort bool
	// Render formats the cell for display. It is never used for sorting.
	Render func(Record) string
}

// Sortable reports whether SortBy accepts this column.
func (c Column) Sortable() bool {
	return !c.DisableSort
}

// Title returns the header label, falling back to the key.
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// Cell returns the display value of column c in r.
func Cell(r Record, c Column) string {
	if c.Render != nil {
		return c.Render(r)
	}
	v, ok := r[c.Key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case time.Time:
		return val.Format(time.DateTime)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// ColumnsFromRecords derives one sortable column per distinct key, sorted by key.
func ColumnsFromRecords(records []Record) []Column {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	cols := make([]Column, len(keys))
	for i, k := range keys {
		cols[i] = Column{Key: k}
	}
	return cols
}
