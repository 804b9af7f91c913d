package dupcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

const (
	// MinConfidence is the score floor for a reported match to survive
	// filtering.
	MinConfidence = 70

	// MaxMatches caps how many matches are surfaced per check.
	MaxMatches = 5
)

// RawMatch is one entry of the classifier's JSON array before filtering and
// candidate join.
type RawMatch struct {
	ID         string `json:"id"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
}

// ErrMalformedOutput marks classifier output that could not be decoded as a
// match array. It is a benign condition: the check treats it as "no
// duplicates found" rather than failing.
var ErrMalformedOutput = errors.New("malformed classifier output")

// ExtractJSONArray pulls the outermost JSON array out of free-form model
// output. Models wrap arrays in markdown fences or prose despite
// instructions, so the extraction is greedy: everything from the first '['
// to the last ']'.
func ExtractJSONArray(raw string) (string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON array found", ErrMalformedOutput)
	}
	return raw[start : end+1], nil
}

// ParseMatches extracts and decodes the classifier's array. Any failure is
// reported as ErrMalformedOutput.
func ParseMatches(raw string) ([]RawMatch, error) {
	arr, err := ExtractJSONArray(raw)
	if err != nil {
		return nil, err
	}
	var matches []RawMatch
	if err := json.Unmarshal([]byte(arr), &matches); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return matches, nil
}

// FilterMatches keeps reported matches scoring at or above MinConfidence,
// in the classifier's order, capped at MaxMatches, and joins each surviving
// entry back to its candidate by id. Entries whose id matches no candidate
// are hallucinations and are dropped before the cap is applied.
func FilterMatches(reported []RawMatch, candidates []models.Candidate) []models.Match {
	byID := make(map[string]models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	matches := make([]models.Match, 0, MaxMatches)
	for _, r := range reported {
		if r.Confidence < MinConfidence {
			continue
		}
		cand, ok := byID[r.ID]
		if !ok {
			continue
		}
		matches = append(matches, models.Match{
			ID:          cand.ID,
			Title:       cand.Title,
			Venue:       cand.Venue,
			Slug:        cand.Slug,
			CreatedAt:   cand.CreatedAt,
			CreatorName: cand.CreatorName,
			Confidence:  r.Confidence,
			Reason:      r.Reason,
			Date:        cand.Date,
		})
		if len(matches) == MaxMatches {
			break
		}
	}
	return matches
}
