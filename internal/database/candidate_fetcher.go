package database

import (
	"context"
	"fmt"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// CandidateLimit caps how many existing listings one duplicate check compares
// against. It bounds both query cost and prompt size.
const CandidateLimit = 50

// CandidateFetcher selects comparison candidates for duplicate checks.
// Promotions are taken by creation recency; events by the trailing-window
// date rule in the event repository.
type CandidateFetcher struct {
	events models.EventRepository
	promos models.PromotionRepository
}

// NewCandidateFetcher creates a fetcher over both listing repositories.
func NewCandidateFetcher(events models.EventRepository, promos models.PromotionRepository) *CandidateFetcher {
	return &CandidateFetcher{events: events, promos: promos}
}

// FetchCandidates returns up to CandidateLimit candidates of the given kind.
func (f *CandidateFetcher) FetchCandidates(ctx context.Context, kind models.SubjectKind) ([]models.Candidate, error) {
	switch kind {
	case models.KindEvent:
		return f.events.RecentCandidates(ctx, CandidateLimit)
	case models.KindPromo:
		return f.promos.RecentCandidates(ctx, CandidateLimit)
	default:
		return nil, fmt.Errorf("unknown subject kind %q", kind)
	}
}
