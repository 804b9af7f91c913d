package models

import "context"

// EventRepository persists and retrieves event listings.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context, query ListQuery) ([]Event, int, error)
	Update(ctx context.Context, event *Event) error
	SetStatus(ctx context.Context, id string, status ListingStatus) error
	IncrementViews(ctx context.Context, id string) error
	RecentCandidates(ctx context.Context, limit int) ([]Candidate, error)
}

// PromotionRepository persists and retrieves promotion listings.
type PromotionRepository interface {
	Create(ctx context.Context, promo *Promotion) error
	GetByID(ctx context.Context, id string) (*Promotion, error)
	GetBySlug(ctx context.Context, slug string) (*Promotion, error)
	List(ctx context.Context, query ListQuery) ([]Promotion, int, error)
	Update(ctx context.Context, promo *Promotion) error
	SetStatus(ctx context.Context, id string, status ListingStatus) error
	IncrementViews(ctx context.Context, id string) error
	RecentCandidates(ctx context.Context, limit int) ([]Candidate, error)
}

// ReviewRepository persists and retrieves reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	ListBySubject(ctx context.Context, kind SubjectKind, subjectID string) ([]Review, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository persists and retrieves accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id string, role Role) error
}

// AnalyticsRepository aggregates figures across listings and reviews.
type AnalyticsRepository interface {
	Summary(ctx context.Context) (*AnalyticsSummary, error)
}
