package dupcheck

import (
	"fmt"
	"strings"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// PromptBuilder turns a submission draft and its candidate set into the
// system and user prompts sent to the classifier. Building is pure: the same
// draft and candidates always produce the same strings, with candidates
// enumerated under stable 1-based indexes.
type PromptBuilder struct {
	systemPrompt string
}

// NewPromptBuilder creates a builder with the default matching instructions.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{systemPrompt: buildSystemPrompt()}
}

// SystemPrompt returns the classifier's standing instructions.
func (b *PromptBuilder) SystemPrompt() string {
	return b.systemPrompt
}

func buildSystemPrompt() string {
	return `CRITICAL: You MUST output ONLY a valid JSON object of the form {"matches": [...]} where "matches" is a JSON array. Do not include any text before or after it. Do not wrap it in markdown code blocks.

You are a duplicate-detection assistant for a nightlife listings platform. Users submit events and promotions; your job is to flag existing listings that describe the same thing as a new submission.

MATCHING HEURISTICS — apply all of these:
- Spelling variants and typos: "Joes Bar" and "Joe's Bar" are the same venue; "Fri" and "Friday" are the same day
- Synonymous phrasing: "Ladies Night" and "Girls Night Out", "Happy Hour" and "2-for-1 Drinks" may describe the same promotion
- Abbreviations and reordering: "Sat Night Live @ Attic" matches "Attic Saturday Night Live"
- Venue is the strongest signal: different venues almost never mean a duplicate, even with identical titles
- Dates: for events, a different date at the same venue with the same title is usually a recurring event, not a duplicate — lower the confidence accordingly
- Do NOT flag listings that merely share a genre, area, or promo type

CONFIDENCE SCALE (integer 0-100):
- 90-100: near-certain duplicate (same venue, same title up to spelling/typos, same date if given)
- 70-89: likely duplicate (same venue, synonymous or reordered title)
- 40-69: possibly related but probably distinct
- 0-39: different listing

Only candidates you score 70 or above matter downstream, but report your honest score for every candidate you mention.

OUTPUT FORMAT — an object holding a JSON array, possibly empty:
{"matches": [
  {"id": "<candidate id exactly as given>", "confidence": 82, "reason": "one short sentence naming the signals"}
]}

Use the candidate "id" field verbatim. Never invent ids. If nothing matches, output {"matches": []}.`
}

// BuildUserPrompt serializes the draft and every candidate with its
// comparable fields only.
func (b *PromptBuilder) BuildUserPrompt(draft models.SubmissionDraft, candidates []models.Candidate) string {
	var sb strings.Builder

	kind := "promotion"
	if draft.Kind == models.KindEvent {
		kind = "event"
	}

	fmt.Fprintf(&sb, "NEW %s SUBMISSION:\n", strings.ToUpper(kind))
	fmt.Fprintf(&sb, "Title: %s\n", strings.TrimSpace(draft.Title))
	fmt.Fprintf(&sb, "Venue: %s\n", strings.TrimSpace(draft.Venue))
	if draft.PromoType != "" {
		fmt.Fprintf(&sb, "Type: %s\n", draft.PromoType)
	}
	if draft.Area != "" {
		fmt.Fprintf(&sb, "Area: %s\n", draft.Area)
	}
	if draft.Date != "" {
		fmt.Fprintf(&sb, "Date: %s\n", draft.Date)
	}
	if draft.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", truncate(draft.Description, 500))
	}

	fmt.Fprintf(&sb, "\nEXISTING %sS (%d candidates):\n", strings.ToUpper(kind), len(candidates))
	for i, c := range candidates {
		fmt.Fprintf(&sb, "%d. id=%s | title=%s | venue=%s", i+1, c.ID, c.Title, c.Venue)
		if c.PromoType != "" {
			fmt.Fprintf(&sb, " | type=%s", c.PromoType)
		}
		if c.Date != nil {
			fmt.Fprintf(&sb, " | date=%s", c.Date.Format("2006-01-02"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nCompare the new submission against each candidate and output the matches object.")
	return sb.String()
}

func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
