package datatable

// DefaultPageWindow is the number of page buttons shown by PageWindow.
const DefaultPageWindow = 5

// PageWindow returns up to maxVisible consecutive page numbers, centred on
// current where possible and shifted to stay inside [1, total].
func PageWindow(current, total, maxVisible int) []int {
	if maxVisible <= 0 {
		maxVisible = DefaultPageWindow
	}
	total = max(total, 1)
	current = min(max(current, 1), total)

	start := max(1, current-maxVisible/2)
	end := min(total, start+maxVisible-1)
	if end-start < maxVisible-1 {
		start = max(1, end-maxVisible+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// PageItem is one slot of a pagination control: a page number or a gap.
type PageItem struct {
	Page     int
	Ellipsis bool
}

// compactThreshold is the largest page count rendered without gaps.
const compactThreshold = 7

// PageItems lays out a pagination control with gaps for long page ranges:
// every page when total <= 7, otherwise the first five pages, the last five,
// or the neighbours of current, joined to the first and last page by gaps.
func PageItems(current, total int) []PageItem {
	total = max(total, 1)
	current = min(max(current, 1), total)

	pages := func(from, to int) []PageItem {
		out := make([]PageItem, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, PageItem{Page: i})
		}
		return out
	}
	gap := PageItem{Ellipsis: true}

	switch {
	case total <= compactThreshold:
		return pages(1, total)
	case current <= 4:
		return append(pages(1, 5), gap, PageItem{Page: total})
	case current >= total-3:
		return append([]PageItem{{Page: 1}, gap}, pages(total-4, total)...)
	default:
		items := []PageItem{{Page: 1}, gap}
		items = append(items, pages(current-1, current+1)...)
		return append(items, gap, PageItem{Page: total})
	}
}
