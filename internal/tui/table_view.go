package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/colonyops/widgets/internal/core/datatable"
	"github.com/colonyops/widgets/internal/core/styles"
	"github.com/colonyops/widgets/internal/render/plain"
)

// TableView is the interactive wrapper around a datatable.Table: it adds a
// column cursor used to choose the sort column.
type TableView struct {
	table  *datatable.Table
	cursor int
	window int
}

// NewTableView wraps t. window is the number of page buttons to show.
func NewTableView(t *datatable.Table, window int) *TableView {
	if window <= 0 {
		window = datatable.DefaultPageWindow
	}
	return &TableView{table: t, window: window}
}

// Table returns the wrapped table.
func (v *TableView) Table() *datatable.Table {
	return v.table
}

// Cursor returns the selected column.
func (v *TableView) Cursor() (datatable.Column, bool) {
	cols := v.table.Columns()
	if len(cols) == 0 {
		return datatable.Column{}, false
	}
	return cols[v.cursor], true
}

// MoveCursor shifts the column cursor by delta, wrapping at either end.
func (v *TableView) MoveCursor(delta int) {
	n := len(v.table.Columns())
	if n == 0 {
		return
	}
	v.cursor = ((v.cursor+delta)%n + n) % n
}

// SortSelected sorts by the selected column. It reports false when the
// column cannot be sorted.
func (v *TableView) SortSelected() (datatable.Column, bool) {
	col, ok := v.Cursor()
	if !ok || !col.Sortable() {
		return col, false
	}
	v.table.SortBy(col.Key)
	return col, true
}

// View renders the table, the span line, and the page window.
func (v *TableView) View() string {
	t := v.table
	cols := t.Columns()

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = plain.HeaderLabel(t, c)
	}

	rows := t.VisibleRows()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = datatable.Cell(r, c)
		}
		cells[i] = line
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col == v.cursor {
					return styles.TableHeaderSelectedStyle
				}
				return styles.TableHeaderStyle
			}
			return styles.TableCellStyle
		})

	var b strings.Builder
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	b.WriteString(styles.TableSpanStyle.Render(plain.SpanText(t)))
	b.WriteString("  ")
	b.WriteString(v.pager())
	return b.String()
}

func (v *TableView) pager() string {
	t := v.table

	prev := styles.PageStyle.Render("‹")
	if !t.HasPrev() {
		prev = styles.PageDisabledStyle.Render("‹")
	}
	next := styles.PageStyle.Render("›")
	if !t.HasNext() {
		next = styles.PageDisabledStyle.Render("›")
	}

	parts := []string{prev}
	for _, p := range t.PageWindow(v.window) {
		label := fmt.Sprint(p)
		if p == t.CurrentPage() {
			parts = append(parts, styles.PageCurrentStyle.Render(label))
		} else {
			parts = append(parts, styles.PageStyle.Render(label))
		}
	}
	parts = append(parts, next)

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) +
		styles.TableSpanStyle.Render(fmt.Sprintf("  page %d of %d", t.CurrentPage(), t.TotalPages()))
}
