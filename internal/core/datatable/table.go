package datatable

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/colonyops/widgets/internal/core/logging"
)

// DefaultPageSize is used when a table is created with a non-positive size.
const DefaultPageSize = 10

// Direction is the sort order of the sort column.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// Table holds records and the sort/page state of one data table. It is not
// safe for concurrent use; it belongs to the component that renders it.
type Table struct {
	columns  []Column
	records  []Record
	sorted   []Record
	pageSize int

	sortColumn string
	sorting    bool
	direction  Direction
	page       int

	logger zerolog.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Table) { t.logger = l }
}

// New creates an empty table on page 1 with no sort column.
func New(columns []Column, pageSize int, opts ...Option) *Table {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	t := &Table{
		columns:  slices.Clone(columns),
		pageSize: pageSize,
		page:     1,
		logger:   logging.Component("datatable"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetRecords replaces the dataset and returns to page 1. The sort column and
// direction are kept.
func (t *Table) SetRecords(records []Record) {
	t.records = slices.Clone(records)
	t.page = 1
	t.resort()
}

// SortBy sorts by the column with key. Repeating the current column flips the
// direction; a new column starts ascending. The page resets to 1. Unknown and
// display-only columns are ignored.
func (t *Table) SortBy(key string) {
	col, ok := t.Column(key)
	if !ok || !col.Sortable() {
		t.logger.Debug().Str("column", key).Msg("sort ignored")
		return
	}

	if t.sorting && t.sortColumn == key {
		t.direction = t.direction.Toggle()
	} else {
		t.sortColumn = key
		t.sorting = true
		t.direction = Ascending
	}
	t.page = 1
	t.resort()

	t.logger.Debug().
		Str("column", key).
		Stringer("direction", t.direction).
		Msg("sorted")
}

// GoToPage moves to page n, clamped into [1, TotalPages()].
func (t *Table) GoToPage(n int) {
	t.page = min(max(n, 1), t.TotalPages())
}

// NextPage advances one page, staying on the last page.
func (t *Table) NextPage() {
	t.GoToPage(t.page + 1)
}

// PrevPage goes back one page, staying on the first page.
func (t *Table) PrevPage() {
	t.GoToPage(t.page - 1)
}

// HasPrev reports whether a previous page exists.
func (t *Table) HasPrev() bool {
	return t.page > 1
}

// HasNext reports whether a next page exists.
func (t *Table) HasNext() bool {
	return t.page < t.TotalPages()
}

// VisibleRows returns the records on the current page in sorted order.
func (t *Table) VisibleRows() []Record {
	start := (t.page - 1) * t.pageSize
	if start >= len(t.sorted) {
		return []Record{}
	}
	end := min(start+t.pageSize, len(t.sorted))
	return slices.Clone(t.sorted[start:end])
}

// TotalPages returns the number of pages, at least 1.
func (t *Table) TotalPages() int {
	n := len(t.records)
	if n == 0 {
		return 1
	}
	return (n + t.pageSize - 1) / t.pageSize
}

// Span returns the 1-based positions of the first and last visible record and
// the total count. All three are zero for an empty table.
func (t *Table) Span() (start, end, total int) {
	total = len(t.records)
	if total == 0 {
		return 0, 0, 0
	}
	start = (t.page-1)*t.pageSize + 1
	end = min(t.page*t.pageSize, total)
	return start, end, total
}

// SortColumn returns the key of the sort column, if any.
func (t *Table) SortColumn() (string, bool) {
	return t.sortColumn, t.sorting
}

// SortDirection returns the current direction.
func (t *Table) SortDirection() Direction {
	return t.direction
}

// CurrentPage returns the 1-based current page.
func (t *Table) CurrentPage() int {
	return t.page
}

// PageSize returns the fixed page size.
func (t *Table) PageSize() int {
	return t.pageSize
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Columns returns the column descriptors in display order.
func (t *Table) Columns() []Column {
	return slices.Clone(t.columns)
}

// Column looks up a column by key.
func (t *Table) Column(key string) (Column, bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// PageWindow returns up to maxVisible consecutive page numbers around the
// current page.
func (t *Table) PageWindow(maxVisible int) []int {
	return PageWindow(t.page, t.TotalPages(), maxVisible)
}

// resort rebuilds the sorted view over the full record set. Sorting always
// happens before slicing so page boundaries do not depend on the current page.
func (t *Table) resort() {
	t.sorted = slices.Clone(t.records)
	if !t.sorting {
		return
	}
	key, dir := t.sortColumn, t.direction
	slices.SortStableFunc(t.sorted, func(a, b Record) int {
		return compareRecords(a, b, key, dir)
	})
}
