package pagination

const (
	// DefaultPage is used when no page is requested
	DefaultPage = 1
	// DefaultLimit is used when no page size is requested
	DefaultLimit = 10
	// MaxLimit caps the page size accepted by list endpoints
	MaxLimit = 100
)

// Params represents input parameters for pagination
type Params struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// DefaultParams returns default pagination values
func DefaultParams() *Params {
	return &Params{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

// Validate ensures pagination parameters are within valid ranges
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset calculates the offset for SQL queries
func (p *Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a collection as returned by list endpoints
type Page[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPage creates a page from the fetched items and the total row count
func NewPage[T any](items []T, params *Params, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:  items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}
}

// TotalPages returns the number of pages of this page's collection
func (p *Page[T]) TotalPages() int {
	return TotalPages(p.Total, p.Limit)
}

// HasNext reports whether a page follows this one
func (p *Page[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}

// HasPrev reports whether a page precedes this one
func (p *Page[T]) HasPrev() bool {
	return p.Page > 1
}

// TotalPages computes ceil(total/limit). A non-positive limit yields 0.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Clamp moves page into [1, max(1, totalPages)]
func Clamp(page, totalPages int) int {
	upper := totalPages
	if upper < 1 {
		upper = 1
	}
	if page < 1 {
		return 1
	}
	if page > upper {
		return upper
	}
	return page
}
