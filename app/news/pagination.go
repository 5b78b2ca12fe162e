package news

import (
	"fmt"
	"slices"
)

const (
	DefaultPageSize = 9

	// pageWindow is how many page numbers are shown on each side of the
	// current one.
	pageWindow = 2
)

var PageSizes = []int{6, 9, 12, 18}

// Pager holds the page position over a filtered view. The zero value is not
// usable; call NewPager.
type Pager struct {
	page int
	size int
}

func NewPager() Pager {
	return Pager{page: 1, size: DefaultPageSize}
}

func (p Pager) Page() int { return p.page }
func (p Pager) Size() int { return p.size }

func (p *Pager) Reset() {
	p.page = 1
}

// SetPage moves to page n of a view with total pages.
func (p *Pager) SetPage(n, total int) error {
	if n < 1 || n > total {
		return fmt.Errorf("%w: %d not in 1..%d", ErrPageOutOfRange, n, total)
	}
	p.page = n
	return nil
}

// SetSize changes the page size and returns to the first page.
func (p *Pager) SetSize(n int) error {
	if !slices.Contains(PageSizes, n) {
		return fmt.Errorf("%w: %d", ErrPageSizeNotAllowed, n)
	}
	p.size = n
	p.page = 1
	return nil
}

func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Slice returns the articles on page (1-based).
func Slice(view []Article, page, size int) []Article {
	if page < 1 || size <= 0 {
		return []Article{}
	}
	start := (page - 1) * size
	if start >= len(view) {
		return []Article{}
	}
	end := min(start+size, len(view))
	return slices.Clone(view[start:end])
}

// Bounds returns the 1-based positions of the first and last article shown on
// page, or zeros for an empty view.
func Bounds(page, size, n int) (first, last int) {
	if n == 0 || page < 1 {
		return 0, 0
	}
	first = (page-1)*size + 1
	last = min(page*size, n)
	if first > n {
		return 0, 0
	}
	return first, last
}

// PageMarker is one entry of the page-number bar: a page button or a
// non-interactive ellipsis.
type PageMarker struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// VisiblePages lays out the page-number bar: the first page, up to two pages
// either side of current, the last page, and an ellipsis over each gap.
func VisiblePages(current, total int) []PageMarker {
	if total < 1 {
		return []PageMarker{}
	}

	markers := []PageMarker{{Page: 1}}
	if current-pageWindow > 2 {
		markers = append(markers, PageMarker{Ellipsis: true})
	}

	for i := max(2, current-pageWindow); i <= min(total-1, current+pageWindow); i++ {
		markers = append(markers, PageMarker{Page: i})
	}

	if current+pageWindow < total-1 {
		markers = append(markers, PageMarker{Ellipsis: true}, PageMarker{Page: total})
	} else if total > 1 {
		markers = append(markers, PageMarker{Page: total})
	}

	return markers
}
