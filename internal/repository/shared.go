package repository

// Pagination holds pagination parameters for listing entries. A zero
// PageSize disables paging.
type Pagination struct {
	PageNo   int32
	PageSize int32
}

// Offset is the number of entries before the requested page. It is computed
// in int64 so large page numbers cannot wrap around.
func (p *Pagination) Offset() int64 {
	if p.PageNo < 1 || p.PageSize < 1 {
		return 0
	}
	return int64(p.PageNo-1) * int64(p.PageSize)
}

type FilterOrder struct {
	Filter  string
	OrderBy string
}

func (fo *FilterOrder) GetFilter() string { return fo.Filter }

func (fo *FilterOrder) GetOrderBy() string { return fo.OrderBy }

// Search mirrors the free text filter box of the list view.
type Search struct {
	Text       string
	ExactMatch bool
	AllForms   bool
}

// ListEntriesQuery selects and orders entries of the current list.
type ListEntriesQuery struct {
	Pagination
	FilterOrder
	Search Search
}
