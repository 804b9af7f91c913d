package dupcheck

import (
	"errors"
	"testing"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "bare array",
			raw:  `[{"id":"a","confidence":90,"reason":"same venue"}]`,
			want: `[{"id":"a","confidence":90,"reason":"same venue"}]`,
		},
		{
			name: "markdown fenced",
			raw:  "```json\n[{\"id\":\"a\",\"confidence\":90,\"reason\":\"x\"}]\n```",
			want: `[{"id":"a","confidence":90,"reason":"x"}]`,
		},
		{
			name: "prose around array",
			raw:  `Here are the matches I found: [{"id":"a","confidence":75,"reason":"x"}] Let me know if you need more.`,
			want: `[{"id":"a","confidence":75,"reason":"x"}]`,
		},
		{
			name: "empty array",
			raw:  "No duplicates. []",
			want: "[]",
		},
		{
			name: "object wrapping the array",
			raw:  `{"matches": [{"id":"a","confidence":88,"reason":"x"}]}`,
			want: `[{"id":"a","confidence":88,"reason":"x"}]`,
		},
		{
			name: "object with empty matches",
			raw:  `{"matches": []}`,
			want: "[]",
		},
		{
			name:    "no array at all",
			raw:     "I could not find any duplicates in the provided candidates.",
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "closing bracket before opening",
			raw:     "] oops [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONArray(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, ErrMalformedOutput) {
					t.Errorf("error = %v, want ErrMalformedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMatchesMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated array", `[{"id":"a","confidence":90`},
		{"object not array", `{"id":"a","confidence":90}`},
		{"wrong element type", `["just","strings"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMatches(tt.raw)
			if !errors.Is(err, ErrMalformedOutput) {
				t.Errorf("error = %v, want ErrMalformedOutput", err)
			}
		})
	}
}

func TestParseMatchesValid(t *testing.T) {
	raw := "```json\n[{\"id\":\"p1\",\"confidence\":82,\"reason\":\"same venue, title is a spelling variant\"},{\"id\":\"p2\",\"confidence\":45,\"reason\":\"same area only\"}]\n```"

	matches, err := ParseMatches(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "p1" || matches[0].Confidence != 82 {
		t.Errorf("first match = %+v", matches[0])
	}
}

func testCandidates(n int) []models.Candidate {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	candidates := make([]models.Candidate, n)
	for i := range candidates {
		candidates[i] = models.Candidate{
			ID:        string(rune('a' + i)),
			Title:     "Listing " + string(rune('A'+i)),
			Venue:     "Venue " + string(rune('A'+i)),
			CreatedAt: created,
		}
	}
	return candidates
}

func TestFilterMatchesConfidenceFloor(t *testing.T) {
	candidates := testCandidates(3)
	reported := []RawMatch{
		{ID: "a", Confidence: 82, Reason: "spelling variant of the same title at the same venue"},
		{ID: "b", Confidence: 69, Reason: "same area"},
		{ID: "c", Confidence: 70, Reason: "synonymous title at the same venue"},
	}

	matches := FilterMatches(reported, candidates)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "a" || matches[1].ID != "c" {
		t.Errorf("kept ids = %s, %s; want a, c", matches[0].ID, matches[1].ID)
	}
}

func TestFilterMatchesDropsHallucinatedIDs(t *testing.T) {
	candidates := testCandidates(2)
	reported := []RawMatch{
		{ID: "zzz", Confidence: 95, Reason: "invented"},
		{ID: "b", Confidence: 88, Reason: "same venue and title"},
	}

	matches := FilterMatches(reported, candidates)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].ID != "b" {
		t.Errorf("kept id = %s, want b", matches[0].ID)
	}
}

func TestFilterMatchesCapsAtFive(t *testing.T) {
	candidates := testCandidates(8)
	reported := make([]RawMatch, 8)
	for i := range reported {
		reported[i] = RawMatch{ID: candidates[i].ID, Confidence: 90 - i, Reason: "match"}
	}

	matches := FilterMatches(reported, candidates)
	if len(matches) != MaxMatches {
		t.Fatalf("got %d matches, want %d", len(matches), MaxMatches)
	}
	// The cap keeps the first five surviving entries in reported order.
	for i, m := range matches {
		if m.ID != candidates[i].ID {
			t.Errorf("match %d id = %s, want %s", i, m.ID, candidates[i].ID)
		}
	}
}

func TestFilterMatchesJoinsCandidateFields(t *testing.T) {
	date := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	candidates := []models.Candidate{
		{
			ID:          "evt-42",
			Title:       "Joe's Bar Friday",
			Venue:       "Joe's Bar",
			Slug:        "joes-bar-friday",
			CreatorName: "nightowl",
			CreatedAt:   created,
			Date:        &date,
		},
	}
	reported := []RawMatch{
		{ID: "evt-42", Confidence: 82, Reason: "title 'Joes Bar Fri' is a spelling variant at the same venue"},
	}

	matches := FilterMatches(reported, candidates)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.Title != "Joe's Bar Friday" || m.Venue != "Joe's Bar" || m.Slug != "joes-bar-friday" {
		t.Errorf("joined fields wrong: %+v", m)
	}
	if m.CreatorName != "nightowl" || !m.CreatedAt.Equal(created) {
		t.Errorf("joined metadata wrong: %+v", m)
	}
	if m.Confidence != 82 {
		t.Errorf("confidence = %d, want 82", m.Confidence)
	}
	if m.Date == nil || !m.Date.Equal(date) {
		t.Errorf("date = %v, want %v", m.Date, date)
	}
}

func TestFilterMatchesEmptyInput(t *testing.T) {
	if got := FilterMatches(nil, testCandidates(3)); len(got) != 0 {
		t.Errorf("got %d matches from nil reported, want 0", len(got))
	}
	if got := FilterMatches([]RawMatch{{ID: "a", Confidence: 99}}, nil); len(got) != 0 {
		t.Errorf("got %d matches with no candidates, want 0", len(got))
	}
}
