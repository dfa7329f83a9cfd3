package models

// MaxPageLimit caps the page size accepted on any list endpoint.
const MaxPageLimit = 100

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NormalizePage clamps a 1-based page number.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizeLimit clamps the page size against a per-endpoint default.
func NormalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// NewPagination computes the page-count metadata for a list response.
func NewPagination(page, limit, total int) *Pagination {
	page = NormalizePage(page)
	limit = NormalizeLimit(limit, 10)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
	}
}
