package dupcheck

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/metrics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// CandidateSource fetches the recent listings a draft is compared against.
// Implementations scope the set by kind: promotions most recently created
// first, events from the trailing 30 days onward in date order.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, kind models.SubjectKind) ([]models.Candidate, error)
}

// Service runs the duplicate-check pipeline: fetch candidates, classify,
// filter, join.
type Service struct {
	source     CandidateSource
	classifier Classifier
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// NewService wires the pipeline together.
func NewService(source CandidateSource, classifier Classifier, collector *metrics.Collector, logger *slog.Logger) *Service {
	return &Service{
		source:     source,
		classifier: classifier,
		metrics:    collector,
		logger:     logger,
	}
}

// Check runs one duplicate check for a draft. The returned slice is never nil
// on success. Drafts missing a title or venue are skipped without touching
// the database or the classifier. Errors are returned only for classifier
// failures the caller reports distinctly (rate limit, quota, transport);
// candidate-fetch failures and malformed classifier output degrade to an
// empty result.
func (s *Service) Check(ctx context.Context, draft models.SubmissionDraft) ([]models.Match, error) {
	if !draft.HasRequiredFields() {
		s.metrics.ObserveCheck("skipped")
		return []models.Match{}, nil
	}

	candidates, err := s.source.FetchCandidates(ctx, draft.Kind)
	if err != nil {
		// A down database should not block the submission flow.
		s.logger.Warn("candidate fetch failed, treating as no candidates",
			"kind", draft.Kind,
			"error", err)
		candidates = nil
	}

	if len(candidates) == 0 {
		s.metrics.ObserveCheck("clean")
		return []models.Match{}, nil
	}

	start := time.Now()
	reported, err := s.classifier.Classify(ctx, draft, candidates)
	s.metrics.ObserveClassifier(time.Since(start))

	if err != nil {
		if errors.Is(err, ErrMalformedOutput) {
			s.logger.Warn("classifier returned malformed output",
				"kind", draft.Kind,
				"candidates", len(candidates),
				"error", err)
			s.metrics.ObserveCheck("clean")
			return []models.Match{}, nil
		}
		s.metrics.ObserveCheck("error")
		return nil, err
	}

	matches := FilterMatches(reported, candidates)

	outcome := "clean"
	if len(matches) > 0 {
		outcome = "matches"
	}
	s.metrics.ObserveCheck(outcome)

	s.logger.Info("duplicate check complete",
		"kind", draft.Kind,
		"candidates", len(candidates),
		"reported", len(reported),
		"matches", len(matches))

	return matches, nil
}
