package domain

// Page sizes for GET /entries.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams selects one page of the chronological entry list.
// Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds params from optional query values.
// Missing or non-positive values fall back to page 1 and DefaultPageSize;
// Limit is clamped to MaxPageSize.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageSize}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageSize)
	}
	return p
}

// Bounds returns the half-open index range [start, end) of this page within
// a list of total items. A page past the end yields start == end == total,
// however large Page is.
func (p PaginationParams) Bounds(total int) (start, end int) {
	p = p.normalized()
	if p.Page-1 >= p.Pages(total) {
		return total, total
	}
	start = (p.Page - 1) * p.Limit
	end = min(start+p.Limit, total)
	return start, end
}

// Pages returns how many pages of p.Limit items hold total items.
func (p PaginationParams) Pages(total int) int {
	p = p.normalized()
	if total <= 0 {
		return 0
	}
	return (total-1)/p.Limit + 1
}

// normalized applies the NewPaginationParams defaults to a literal value.
func (p PaginationParams) normalized() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	return p
}
