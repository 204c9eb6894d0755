package store

// PageParams contains page-based pagination request parameters.
type PageParams struct {
	Page  int // 1-based page number
	Limit int // items per page
}

// Normalize clamps the parameters to usable values. A page below 1
// becomes 1, a missing or non-positive limit becomes defaultLimit, and
// limits above maxLimit are capped.
func (p *PageParams) Normalize(defaultLimit, maxLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// Offset returns the number of records to skip for this page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes the position of a page within the full result set.
// TotalPages is ceil(Total/Limit); zero when the result set is empty.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination builds pagination metadata for a result set of total
// records viewed through the given page parameters.
func NewPagination(total int, params PageParams) Pagination {
	pages := 0
	if params.Limit > 0 {
		pages = (total + params.Limit - 1) / params.Limit
	}
	return Pagination{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: pages,
	}
}
