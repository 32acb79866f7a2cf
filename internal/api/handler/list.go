package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// listFilterFrom reads page, limit, q and status from the query string.
// Malformed numbers fall back to the defaults.
func listFilterFrom(c echo.Context, tenantID string) ports.ListFilter {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.ListFilter{
		TenantID: tenantID,
		Search:   strings.TrimSpace(c.QueryParam("q")),
		Status:   strings.TrimSpace(c.QueryParam("status")),
		Page:     domain.NewPage(page, limit),
	}
}

func newListResponse[T any](r *ports.ListResult[T]) listResponse[T] {
	return listResponse[T]{
		Data: r.Items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

// paginationView builds the pager of a dashboard list, keeping the current
// search and status in the links.
func paginationView[T any](path string, f ports.ListFilter, r *ports.ListResult[T]) map[string]any {
	link := func(page int) string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		if f.Search != "" {
			q.Set("q", f.Search)
		}
		if f.Status != "" {
			q.Set("status", f.Status)
		}
		return path + "?" + q.Encode()
	}

	v := map[string]any{
		"page":        r.Page,
		"total_pages": r.TotalPages,
		"total":       r.Total,
	}
	if r.Page > 1 {
		v["prev_url"] = link(r.Page - 1)
	}
	if r.Page < r.TotalPages {
		v["next_url"] = link(r.Page + 1)
	}
	return v
}
