// Package htmltable renders a data table page as a standalone HTML document.
package htmltable

import (
	"fmt"
	"io"
	"strconv"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"github.com/colonyops/widgets/internal/core/datatable"
)

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a1b26; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #d0d4e4; padding: .5rem .75rem; text-align: left; }
th button { all: unset; cursor: pointer; font-weight: 600; }
th.sorted-asc button::after { content: " \25B2"; }
th.sorted-desc button::after { content: " \25BC"; }
.table-footer { display: flex; justify-content: space-between; margin-top: 1rem; }
.muted { color: #565f89; }
nav.pagination button[aria-current="page"] { font-weight: 700; text-decoration: underline; }
`

// Render writes a complete HTML document for the current page to w.
func Render(w io.Writer, title string, t *datatable.Table) error {
	if err := Document(title, t).Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Document wraps the table in an HTML page.
func Document(title string, t *datatable.Table) gomponents.Node {
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.TitleEl(gomponents.Text(title)),
				html.StyleEl(gomponents.Raw(stylesheet)),
			),
			html.Body(
				html.H1(gomponents.Text(title)),
				Table(t),
			),
		),
	)
}

// Table renders the table, its span line, and the pagination control.
func Table(t *datatable.Table) gomponents.Node {
	cols := t.Columns()

	headers := make([]gomponents.Node, len(cols))
	for i, c := range cols {
		headers[i] = headerCell(t, c)
	}

	rows := t.VisibleRows()
	body := make([]gomponents.Node, 0, len(rows)+1)
	for _, r := range rows {
		cells := make([]gomponents.Node, len(cols))
		for j, c := range cols {
			cells[j] = html.Td(gomponents.Text(datatable.Cell(r, c)))
		}
		body = append(body, html.Tr(gomponents.Group(cells)))
	}
	if len(rows) == 0 {
		body = append(body, html.Tr(
			html.Td(
				html.ColSpan(strconv.Itoa(max(len(cols), 1))),
				html.Class("muted"),
				gomponents.Text("No results."),
			),
		))
	}

	start, end, total := t.Span()
	return html.Div(
		html.Class("data-table"),
		html.Table(
			html.THead(html.Tr(gomponents.Group(headers))),
			html.TBody(gomponents.Group(body)),
		),
		html.Div(
			html.Class("table-footer"),
			html.P(html.Class("muted"), gomponents.Text(fmt.Sprintf("Showing %d to %d of %d entries", start, end, total))),
			pagination(t),
		),
	)
}

func headerCell(t *datatable.Table, c datatable.Column) gomponents.Node {
	if !c.Sortable() {
		return html.Th(gomponents.Attr("scope", "col"), gomponents.Text(c.Title()))
	}

	class, ariaSort := "sortable", "none"
	if key, sorting := t.SortColumn(); sorting && key == c.Key {
		if t.SortDirection() == datatable.Descending {
			class, ariaSort = "sorted-desc", "descending"
		} else {
			class, ariaSort = "sorted-asc", "ascending"
		}
	}

	return html.Th(
		gomponents.Attr("scope", "col"),
		html.Class(class),
		html.Aria("sort", ariaSort),
		html.Button(
			html.Type("button"),
			gomponents.Attr("data-sort", c.Key),
			gomponents.Text(c.Title()),
		),
	)
}

func pagination(t *datatable.Table) gomponents.Node {
	items := datatable.PageItems(t.CurrentPage(), t.TotalPages())

	nodes := make([]gomponents.Node, 0, len(items)+2)
	nodes = append(nodes, pageButton("Previous", t.CurrentPage()-1, !t.HasPrev(), false))
	for _, it := range items {
		if it.Ellipsis {
			nodes = append(nodes, html.Span(html.Aria("hidden", "true"), gomponents.Text("…")))
			continue
		}
		nodes = append(nodes, pageButton(strconv.Itoa(it.Page), it.Page, false, it.Page == t.CurrentPage()))
	}
	nodes = append(nodes, pageButton("Next", t.CurrentPage()+1, !t.HasNext(), false))

	return html.Nav(
		html.Class("pagination"),
		html.Aria("label", "pagination"),
		gomponents.Group(nodes),
	)
}

func pageButton(label string, page int, disabled, current bool) gomponents.Node {
	return html.Button(
		html.Type("button"),
		gomponents.Attr("data-page", strconv.Itoa(page)),
		gomponents.If(disabled, html.Disabled()),
		gomponents.If(current, html.Aria("current", "page")),
		gomponents.Text(label),
	)
}
