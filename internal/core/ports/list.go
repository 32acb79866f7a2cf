package ports

import "github.com/zecall/dashboard/internal/core/domain"

// ListFilter carries the common query parameters of the dashboard lists.
// TenantID is always enforced by the service layer.
type ListFilter struct {
	TenantID string
	Search   string // optional: case-insensitive partial match
	Status   string // optional: exact status match
	Page     domain.Page
}

// ListResult is one page of a list endpoint.
type ListResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// NewListResult assembles a ListResult from a repository page.
func NewListResult[T any](items []T, total int64, page domain.Page) *ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
	}
}
