package models

import (
	"strings"
	"time"
)

// Promotion represents a standing offer at a venue: happy hours, ladies
// nights, drink specials and the like. Unlike events, promotions are not tied
// to a single date.
type Promotion struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Venue       string        `json:"venue"`
	Area        string        `json:"area,omitempty"`
	Description string        `json:"description,omitempty"`
	PromoType   string        `json:"promo_type,omitempty"`
	CreatorID   string        `json:"creator_id"`
	CreatorName string        `json:"creator_name,omitempty"`
	Status      ListingStatus `json:"status"`
	ViewCount   int           `json:"view_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Validate checks the fields a submission must carry before persistence.
func (p *Promotion) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(p.Venue) == "" {
		return ValidationError{Field: "venue", Message: "venue is required"}
	}
	if len(p.Title) > 200 {
		return ValidationError{Field: "title", Message: "title must be 200 characters or fewer"}
	}
	return nil
}
