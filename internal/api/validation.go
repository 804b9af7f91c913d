package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// parseListQuery builds a ListQuery from URL parameters. Unknown values fall
// back to defaults rather than erroring; Normalize clamps the rest.
func parseListQuery(r *http.Request) models.ListQuery {
	q := models.ListQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Area:   strings.TrimSpace(r.URL.Query().Get("area")),
		Venue:  strings.TrimSpace(r.URL.Query().Get("venue")),
	}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.From = &t
		}
	}
	if v := r.URL.Query().Get("until"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			q.Until = &end
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := models.ListingStatus(v)
		switch status {
		case models.ListingStatusActive, models.ListingStatusExpired, models.ListingStatusRemoved:
			q.Status = &status
		}
	}

	switch models.SortField(r.URL.Query().Get("sort_by")) {
	case models.SortByDate:
		q.SortBy = models.SortByDate
	case models.SortByViews:
		q.SortBy = models.SortByViews
	case models.SortByCreatedAt:
		q.SortBy = models.SortByCreatedAt
	}
	switch models.SortOrder(r.URL.Query().Get("sort_order")) {
	case models.SortOrderAsc:
		q.SortOrder = models.SortOrderAsc
	case models.SortOrderDesc:
		q.SortOrder = models.SortOrderDesc
	}

	q.Normalize()
	return q
}

// pathSegment extracts the path element after a prefix: pathSegment(r,
// "/api/events/") on /api/events/abc/status returns "abc".
func pathSegment(r *http.Request, prefix string) string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
