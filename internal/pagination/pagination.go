// Package pagination implements fixed-size page windowing over ordered
// query results.
package pagination

// Window describes one resolved page of an ordered result set.
type Window struct {
	// Page is the effective 1-based page number after clamping.
	Page int `json:"page"`
	// TotalPages is the number of pages for the full result set, at least 1.
	TotalPages int `json:"total_pages"`
	// Count is the total number of items across all pages.
	Count int64 `json:"count"`
	// Offset and Limit are the query window for this page.
	Offset int `json:"-"`
	Limit  int `json:"-"`
}

// Resolve computes the window for the requested page. Out-of-range page
// numbers clamp to the nearest valid page instead of erroring: anything
// below 1 resolves to the first page, anything past the end resolves to
// the last page. An empty result set resolves to a single empty page.
func Resolve(count int64, page, pageSize int) Window {
	if pageSize <= 0 {
		pageSize = 1
	}

	totalPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Window{
		Page:       page,
		TotalPages: totalPages,
		Count:      count,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	}
}
