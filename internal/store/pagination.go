package store

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// PageParams describes an offset-based page request. Page numbering starts
// at 1; values at or below zero fall back to the defaults.
type PageParams struct {
	Page     int
	PageSize int
}

// DefaultPageParams returns the first page at the default size.
func DefaultPageParams() PageParams {
	return PageParams{Page: defaultPage, PageSize: defaultPageSize}
}

// Normalize replaces out-of-range values with defaults.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	return p
}

// Offset returns the number of records to skip before the page begins.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
