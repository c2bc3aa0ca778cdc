package posts

// Pagination is the metadata block returned alongside every list response.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

// NewPagination derives page metadata from the requested page/limit and the
// total matching count. Values are taken as provided: out-of-range pages are
// not rejected, they just yield an empty result with HasNextPage=false.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
		Limit:       limit,
	}
}

// Skip converts a 1-indexed page into the store offset.
func Skip(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}
