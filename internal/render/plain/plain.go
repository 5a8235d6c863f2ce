// Package plain renders a data table page as a bordered text table.
package plain

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/colonyops/widgets/internal/core/datatable"
	"github.com/colonyops/widgets/internal/core/styles"
)

// HeaderLabel returns the column title with a sort indicator when the table
// is sorted by it.
func HeaderLabel(t *datatable.Table, c datatable.Column) string {
	if !c.Sortable() {
		return c.Title()
	}
	key, sorting := t.SortColumn()
	if !sorting || key != c.Key {
		return c.Title()
	}
	if t.SortDirection() == datatable.Descending {
		return c.Title() + " " + styles.IconSortDesc
	}
	return c.Title() + " " + styles.IconSortAsc
}

// SpanText is the "Showing X to Y of Z entries" line under a table.
func SpanText(t *datatable.Table) string {
	start, end, total := t.Span()
	return fmt.Sprintf("Showing %d to %d of %d entries", start, end, total)
}

// PagerText lists the pagination control as text, marking the current page
// with brackets.
func PagerText(t *datatable.Table) string {
	items := datatable.PageItems(t.CurrentPage(), t.TotalPages())
	parts := make([]string, 0, len(items)+2)
	parts = append(parts, "‹ Prev")
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Page == t.CurrentPage():
			parts = append(parts, fmt.Sprintf("[%d]", it.Page))
		default:
			parts = append(parts, fmt.Sprint(it.Page))
		}
	}
	parts = append(parts, "Next ›")
	return strings.Join(parts, " ")
}

// Table builds the lipgloss table for the current page.
func Table(t *datatable.Table) *table.Table {
	cols := t.Columns()

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = HeaderLabel(t, c)
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

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			return styles.TableCellStyle
		})
}

// Render writes the current page, the span line, and the pager to w.
func Render(w io.Writer, t *datatable.Table) error {
	var b strings.Builder
	b.WriteString(Table(t).Render())
	b.WriteString("\n")
	b.WriteString(styles.TableSpanStyle.Render(SpanText(t)))
	b.WriteString("\n")
	if t.TotalPages() > 1 {
		b.WriteString(styles.TableSpanStyle.Render(PagerText(t)))
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
