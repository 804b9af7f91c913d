package models

import (
	"strings"
	"time"
)

// SubmissionDraft is the transient, client-owned form state checked for
// duplicates while the user is still typing. Nothing here is persisted.
type SubmissionDraft struct {
	Kind        SubjectKind `json:"type"`
	Title       string      `json:"title"`
	Venue       string      `json:"venue"`
	Description string      `json:"description,omitempty"`
	PromoType   string      `json:"promoType,omitempty"`
	Area        string      `json:"area,omitempty"`
	Date        string      `json:"date,omitempty"`
}

// HasRequiredFields reports whether both title and venue carry non-blank
// values after trimming. Drafts failing this gate are never checked.
func (d SubmissionDraft) HasRequiredFields() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.Venue) != ""
}

// CacheKey returns a composite key identifying this draft for the purpose of
// deduplicating redundant checks. Identical keys mean identical checks.
func (d SubmissionDraft) CacheKey() string {
	return strings.Join([]string{
		string(d.Kind),
		strings.TrimSpace(d.Title),
		strings.TrimSpace(d.Venue),
		d.PromoType,
		d.Area,
		d.Date,
	}, "|")
}

// Candidate is the read-only projection of a persisted listing used for
// duplicate comparison. Only comparable fields are carried so nothing
// extraneous is sent to the classifier.
type Candidate struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Venue       string     `json:"venue"`
	PromoType   string     `json:"promo_type,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Slug        string     `json:"slug,omitempty"`
	CreatorName string     `json:"creator_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Match is a candidate the classifier flagged as a likely duplicate, joined
// back to its full candidate record. Confidence is an integer 0-100.
type Match struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Venue       string     `json:"venue"`
	Slug        string     `json:"slug,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatorName string     `json:"creatorName,omitempty"`
	Confidence  int        `json:"confidence"`
	Reason      string     `json:"reason"`
	Date        *time.Time `json:"date,omitempty"`
}
