package domain

// SearchQuery is a parsed, validated search request. It lives for one
// request only; no session state is retained between requests.
type SearchQuery struct {
	Aesthetic string
	MinPrice  *float64
	MaxPrice  *float64
	Sizes     []string
	Brands    []string
	Page      int
	Limit     int
}

// Offset returns the zero-based row offset for the requested page.
func (q SearchQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// SearchPage is one page of discovery results plus the structured
// attributes that produced it (surfaced for UI transparency).
type SearchPage struct {
	Results         []Product
	Total           int
	Page            int
	Limit           int
	TotalPages      int
	Recommendations []StyleAttribute
}

// PageCount computes ceil(total/limit).
func PageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
