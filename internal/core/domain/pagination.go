package domain

import "math"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPage keeps Skip within int32 for any limit.
	MaxPage = math.MaxInt32 / MaxPageLimit
)

// Page is a normalised 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to [1, MaxPage] and limit to [1, MaxPageLimit],
// defaulting limit to DefaultPageLimit.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit}
}

// Skip is the number of rows preceding this page.
func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total / limit).
func (p Page) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
