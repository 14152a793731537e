// Package scoring derives a user's score, progress percentage, and recent
// activity from the challenge catalog and submission list. Everything here
// is a pure function over already fetched data.
package scoring

import (
	"strings"

	"codequest/internal/api"
	"codequest/internal/catalog"
	"codequest/internal/submit"
)

const snippetLen = 80

// LatestApproved maps each challenge id to the newest approved submission
// for it. Older or non-approved submissions never contribute to score: this
// is what keeps a re-graded challenge from counting twice.
func LatestApproved(subs []api.Submission) map[string]api.Submission {
	out := make(map[string]api.Submission)
	for _, s := range submit.ByDateDesc(subs) {
		if s.Status != api.StatusApproved {
			continue
		}
		cid := s.Challenge.String()
		if cid == "" {
			continue
		}
		if _, seen := out[cid]; !seen {
			out[cid] = s
		}
	}
	return out
}

// Score sums awarded points across the latest approved submission per
// challenge. Ungraded approvals fall back to their requested points.
func Score(subs []api.Submission) float64 {
	var sum float64
	for _, s := range LatestApproved(subs) {
		sum += s.Awarded()
	}
	return sum
}

// TotalPossible sums the catalog's point values, applying the default for
// challenges without a usable value.
func TotalPossible(challenges []catalog.Challenge) float64 {
	var sum float64
	for _, c := range challenges {
		sum += c.MaxPoints()
	}
	return sum
}

// AllPerfect reports whether every challenge in the catalog has a latest
// approved submission worth at least that challenge's max points. An empty
// catalog is never perfect.
func AllPerfect(challenges []catalog.Challenge, latestApproved map[string]api.Submission) bool {
	if len(challenges) == 0 {
		return false
	}
	for _, c := range challenges {
		s, ok := latestApproved[c.ID]
		if !ok {
			return false
		}
		if s.Awarded() < c.MaxPoints() {
			return false
		}
	}
	return true
}

// Progress returns the displayed progress percentage in [0, 100]. The raw
// ratio is rounded to the nearest integer, but 100 is reserved for the
// all-perfect case: with one imperfect challenge left, a ratio that rounds
// to 100 still displays as 99.
func Progress(challenges []catalog.Challenge, subs []api.Submission) int {
	latest := LatestApproved(subs)

	total := TotalPossible(challenges)
	var pct float64
	if total > 0 {
		pct = Score(subs) / total * 100
	}

	rounded := int(pct + 0.5)
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}

	if AllPerfect(challenges, latest) {
		return 100
	}
	if rounded > 99 {
		return 99
	}
	return rounded
}

// Activity is one row of the recent-activity view.
type Activity struct {
	ChallengeID string
	Title       string
	Status      api.Status
	Points      float64
	CodeSnippet string
}

// Recent returns up to limit of the user's newest submissions, any status,
// deduplicated to one entry per challenge (newest wins).
func Recent(subs []api.Submission, challenges []catalog.Challenge, limit int) []Activity {
	byID := make(map[string]catalog.Challenge, len(challenges))
	for _, c := range challenges {
		byID[c.ID] = c
	}

	seen := make(map[string]bool)
	var out []Activity
	for _, s := range submit.ByDateDesc(subs) {
		if len(out) >= limit {
			break
		}
		cid := s.Challenge.String()
		key := cid
		if key == "" {
			key = s.ID.String()
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		title := "Challenge"
		if c, ok := byID[cid]; ok && c.Title != "" {
			title = c.Title
		}

		out = append(out, Activity{
			ChallengeID: key,
			Title:       title,
			Status:      s.Status,
			Points:      s.Awarded(),
			CodeSnippet: Snippet(s.Code),
		})
	}
	return out
}

// Snippet flattens code to a single line and truncates it for list display.
func Snippet(code string) string {
	flat := strings.Join(strings.Split(strings.TrimSpace(code), "\n"), " ")
	runes := []rune(flat)
	if len(runes) > snippetLen {
		return string(runes[:snippetLen])
	}
	return flat
}
