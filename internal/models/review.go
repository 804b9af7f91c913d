package models

import "time"

// SubjectKind distinguishes what a review or duplicate check refers to.
type SubjectKind string

const (
	KindEvent SubjectKind = "event"
	KindPromo SubjectKind = "promo"
)

// Valid reports whether the kind is one of the known subject kinds.
func (k SubjectKind) Valid() bool {
	return k == KindEvent || k == KindPromo
}

// Review is a user rating and comment on an event or promotion.
type Review struct {
	ID         string      `json:"id"`
	Kind       SubjectKind `json:"kind"`
	SubjectID  string      `json:"subject_id"`
	AuthorID   string      `json:"author_id"`
	AuthorName string      `json:"author_name,omitempty"`
	Rating     int         `json:"rating"`
	Body       string      `json:"body,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Validate checks rating bounds and subject data.
func (r *Review) Validate() error {
	if !r.Kind.Valid() {
		return ValidationError{Field: "kind", Message: "kind must be 'event' or 'promo'"}
	}
	if r.SubjectID == "" {
		return ValidationError{Field: "subject_id", Message: "subject_id is required"}
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if len(r.Body) > 2000 {
		return ValidationError{Field: "body", Message: "body must be 2000 characters or fewer"}
	}
	return nil
}
