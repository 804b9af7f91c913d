package models

import "time"

// ListQuery represents filters and pagination for retrieving listings.
type ListQuery struct {
	Search string `json:"search,omitempty"`
	Area   string `json:"area,omitempty"`
	Venue  string `json:"venue,omitempty"`

	// Events only: restrict to dates within [From, Until].
	From  *time.Time `json:"from,omitempty"`
	Until *time.Time `json:"until,omitempty"`

	Status *ListingStatus `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit,omitempty"`

	SortBy    SortField `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
}

// SortField specifies which column to sort listings by.
type SortField string

const (
	SortByDate      SortField = "date"
	SortByCreatedAt SortField = "created_at"
	SortByViews     SortField = "views"
)

// SortOrder specifies ascending or descending sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// Normalize applies defaults and clamps pagination bounds.
func (q *ListQuery) Normalize() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.SortOrder != SortOrderAsc && q.SortOrder != SortOrderDesc {
		q.SortOrder = SortOrderDesc
	}
}

// Offset converts page/limit into a row offset.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// AnalyticsSummary holds aggregate figures for the analytics endpoint.
type AnalyticsSummary struct {
	TotalEvents     int         `json:"total_events"`
	TotalPromotions int         `json:"total_promotions"`
	TotalReviews    int         `json:"total_reviews"`
	EventsLast7Days int         `json:"events_last_7_days"`
	PromosLast7Days int         `json:"promos_last_7_days"`
	AverageRating   float64     `json:"average_rating"`
	TopAreas        []AreaCount `json:"top_areas"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// AreaCount pairs a neighborhood with its listing count.
type AreaCount struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}
