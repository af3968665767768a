package user

// Page is a bounded, ordered slice of the user collection plus its
// position within the whole collection.
type Page struct {
	Items       []User // Items holds the users of this page in store order
	TotalCount  int64  // TotalCount is the size of the full collection
	CurrentPage int    // CurrentPage is the 1-based page number
	PageSize    int    // PageSize is the requested page size
}

// NewPage creates a Page for the given slice and position.
func NewPage(items []User, totalCount int64, currentPage, pageSize int) *Page {
	return &Page{
		Items:       items,
		TotalCount:  totalCount,
		CurrentPage: currentPage,
		PageSize:    pageSize,
	}
}

// TotalPages returns the number of pages needed to cover the collection.
func (p *Page) TotalPages() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize)
}

// HasPrevious reports whether a page precedes the current one.
func (p *Page) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a page follows the current one.
func (p *Page) HasNext() bool {
	return int64(p.CurrentPage) < p.TotalPages()
}
