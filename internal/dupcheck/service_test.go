package dupcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/metrics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

type mockSource struct {
	candidates []models.Candidate
	err        error
	calls      int
	lastKind   models.SubjectKind
}

func (m *mockSource) FetchCandidates(_ context.Context, kind models.SubjectKind) ([]models.Candidate, error) {
	m.calls++
	m.lastKind = kind
	return m.candidates, m.err
}

type mockClassifier struct {
	matches []RawMatch
	err     error
	calls   int
}

func (m *mockClassifier) Classify(_ context.Context, _ models.SubmissionDraft, _ []models.Candidate) ([]RawMatch, error) {
	m.calls++
	return m.matches, m.err
}

func newTestService(t *testing.T, source *mockSource, classifier *mockClassifier) *Service {
	t.Helper()
	collector, err := metrics.NewCollector()
	if err != nil {
		t.Fatalf("creating collector: %v", err)
	}
	return NewService(source, classifier, collector, slog.New(slog.DiscardHandler))
}

func validDraft() models.SubmissionDraft {
	return models.SubmissionDraft{
		Kind:  models.KindPromo,
		Title: "Ladies Night",
		Venue: "The Attic",
	}
}

func TestCheckSkipsBlankDrafts(t *testing.T) {
	tests := []struct {
		name  string
		draft models.SubmissionDraft
	}{
		{"empty draft", models.SubmissionDraft{Kind: models.KindPromo}},
		{"blank title", models.SubmissionDraft{Kind: models.KindPromo, Title: "   ", Venue: "The Attic"}},
		{"blank venue", models.SubmissionDraft{Kind: models.KindEvent, Title: "Ladies Night", Venue: "\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockSource{candidates: testCandidates(3)}
			classifier := &mockClassifier{}
			svc := newTestService(t, source, classifier)

			matches, err := svc.Check(context.Background(), tt.draft)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(matches) != 0 {
				t.Errorf("got %d matches, want 0", len(matches))
			}
			if source.calls != 0 {
				t.Errorf("candidate source called %d times, want 0", source.calls)
			}
			if classifier.calls != 0 {
				t.Errorf("classifier called %d times, want 0", classifier.calls)
			}
		})
	}
}

func TestCheckNoCandidatesSkipsClassifier(t *testing.T) {
	source := &mockSource{}
	classifier := &mockClassifier{}
	svc := newTestService(t, source, classifier)

	matches, err := svc.Check(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("matches = %v, want empty non-nil slice", matches)
	}
	if source.calls != 1 {
		t.Errorf("candidate source called %d times, want 1", source.calls)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times, want 0", classifier.calls)
	}
}

func TestCheckCandidateFetchFailureIsBenign(t *testing.T) {
	source := &mockSource{err: errors.New("connection refused")}
	classifier := &mockClassifier{}
	svc := newTestService(t, source, classifier)

	matches, err := svc.Check(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times, want 0", classifier.calls)
	}
}

func TestCheckFiltersAndJoins(t *testing.T) {
	candidates := testCandidates(4)
	source := &mockSource{candidates: candidates}
	classifier := &mockClassifier{matches: []RawMatch{
		{ID: "a", Confidence: 91, Reason: "same venue and title"},
		{ID: "b", Confidence: 50, Reason: "same area"},
		{ID: "nope", Confidence: 99, Reason: "hallucinated"},
		{ID: "d", Confidence: 74, Reason: "synonymous title"},
	}}
	svc := newTestService(t, source, classifier)

	matches, err := svc.Check(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "a" || matches[1].ID != "d" {
		t.Errorf("match ids = %s, %s; want a, d", matches[0].ID, matches[1].ID)
	}
	if matches[0].Title != candidates[0].Title {
		t.Errorf("match not joined to candidate record: %+v", matches[0])
	}
}

func TestCheckPassesKindToSource(t *testing.T) {
	source := &mockSource{}
	svc := newTestService(t, source, &mockClassifier{})

	draft := validDraft()
	draft.Kind = models.KindEvent
	if _, err := svc.Check(context.Background(), draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.lastKind != models.KindEvent {
		t.Errorf("source fetched kind %q, want %q", source.lastKind, models.KindEvent)
	}
}

func TestCheckMalformedOutputIsBenign(t *testing.T) {
	source := &mockSource{candidates: testCandidates(2)}
	classifier := &mockClassifier{err: fmt.Errorf("%w: unexpected end of JSON input", ErrMalformedOutput)}
	svc := newTestService(t, source, classifier)

	matches, err := svc.Check(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("matches = %v, want empty non-nil slice", matches)
	}
}

func TestCheckPropagatesClassifierErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"rate limited", fmt.Errorf("%w: try again later", ErrRateLimited), ErrRateLimited},
		{"quota exhausted", fmt.Errorf("%w: billing hard limit", ErrQuotaExceeded), ErrQuotaExceeded},
		{"transport failure", errors.New("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockSource{candidates: testCandidates(2)}
			classifier := &mockClassifier{err: tt.err}
			svc := newTestService(t, source, classifier)

			matches, err := svc.Check(context.Background(), validDraft())
			if err == nil {
				t.Fatal("expected error")
			}
			if matches != nil {
				t.Errorf("matches = %v, want nil on error", matches)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}
