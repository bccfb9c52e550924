package domain

// PageResult is a computed slice of a collection for display. It is derived
// on every call and never persisted.
type PageResult struct {
	Documents  []Document `json:"documents"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

// NewPageResult builds a PageResult and fills in the page count. TotalPages
// is never below 1, so an empty collection still renders as one empty page.
func NewPageResult(docs []Document, page, pageSize, total int) PageResult {
	// Ceiling division, written so a huge page size cannot overflow the sum
	totalPages := 1
	if total > 0 {
		totalPages = (total-1)/pageSize + 1
	}
	if docs == nil {
		docs = []Document{}
	}
	return PageResult{
		Documents:  docs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
