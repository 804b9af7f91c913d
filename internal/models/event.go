package models

import (
	"strings"
	"time"
)

// Event represents a nightlife event listing: a party, gig, or club night at a
// venue on a specific date.
type Event struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Venue       string        `json:"venue"`
	Area        string        `json:"area,omitempty"`
	Description string        `json:"description,omitempty"`
	EventType   string        `json:"event_type,omitempty"`
	Date        *time.Time    `json:"date,omitempty"`
	CreatorID   string        `json:"creator_id"`
	CreatorName string        `json:"creator_name,omitempty"`
	Status      ListingStatus `json:"status"`
	ViewCount   int           `json:"view_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ListingStatus represents the lifecycle state of an event or promotion.
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusExpired ListingStatus = "expired"
	ListingStatusRemoved ListingStatus = "removed"
)

// Validate checks the fields a submission must carry before persistence.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(e.Venue) == "" {
		return ValidationError{Field: "venue", Message: "venue is required"}
	}
	if len(e.Title) > 200 {
		return ValidationError{Field: "title", Message: "title must be 200 characters or fewer"}
	}
	return nil
}

// Slugify derives a URL slug from a listing title.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ValidationError describes a rejected field in a submitted payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
