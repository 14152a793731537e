// Package submit decides how a user's new solution maps onto the remote
// submission list. The platform does not enforce "one live submission per
// user and challenge", so the client does: resubmits update the newest
// matching record in place instead of creating a sibling.
package submit

import (
	"sort"
	"time"

	"codequest/internal/api"
)

// timeLayouts are tried in order when parsing submission timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp returns the submission's recency in Unix milliseconds. The first
// present field of updatedAt, createdAt, date wins; an absent or unparseable
// value reads as epoch 0 so such records sort last.
func Timestamp(s api.Submission) int64 {
	v := s.UpdatedAt
	if v == "" {
		v = s.CreatedAt
	}
	if v == "" {
		v = s.Date
	}
	if v == "" {
		return 0
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// Newest returns the submission with the greatest timestamp. Ties resolve
// to the earliest entry in input order. Returns nil for an empty list.
func Newest(subs []api.Submission) *api.Submission {
	var best *api.Submission
	var bestTS int64
	for i := range subs {
		ts := Timestamp(subs[i])
		if best == nil || ts > bestTS {
			best = &subs[i]
			bestTS = ts
		}
	}
	return best
}

// ByDateDesc returns a copy of subs sorted newest first. The sort is stable,
// so equal timestamps keep their input order.
func ByDateDesc(subs []api.Submission) []api.Submission {
	out := make([]api.Submission, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool {
		return Timestamp(out[i]) > Timestamp(out[j])
	})
	return out
}

// Matches reports whether s belongs to the given user and challenge. The
// stored email is compared exactly as stored; the challenge ref may equal
// either the route-level id or the resolved catalog id.
func Matches(s api.Submission, email, routeID, stateID string) bool {
	if s.UserEmail != email {
		return false
	}
	ref := s.Challenge.String()
	return ref == routeID || ref == stateID
}

// Mine filters subs to the given user and challenge.
func Mine(subs []api.Submission, email, routeID, stateID string) []api.Submission {
	var out []api.Submission
	for _, s := range subs {
		if Matches(s, email, routeID, stateID) {
			out = append(out, s)
		}
	}
	return out
}

// Decision is the reconciler's verdict for a submit action.
type Decision struct {
	// Existing is the record to update in place, or nil to create a new one.
	Existing *api.Submission

	// NeedsConfirm is set when Existing was previously approved: overwriting
	// it resets the grade, so the user must confirm first.
	NeedsConfirm bool
}

// Decide runs the reconciliation rule over a freshly fetched submission
// list. Callers with no loaded list must fetch one first; deciding against
// stale state is how duplicate submissions happen.
func Decide(subs []api.Submission, email, routeID, stateID string) Decision {
	latest := Newest(Mine(subs, email, routeID, stateID))
	if latest == nil {
		return Decision{}
	}
	return Decision{
		Existing:     latest,
		NeedsConfirm: latest.Status == api.StatusApproved,
	}
}

// UpdatePatch builds the resubmit payload: status back to pending, prior
// grade cleared, code and requested points replaced.
func UpdatePatch(challengeRef, email, code string, pointsRequested float64) api.SubmissionPatch {
	return api.SubmissionPatch{
		Challenge:       challengeRef,
		UserEmail:       email,
		Code:            &code,
		Status:          api.StatusPending,
		PointsRequested: &pointsRequested,
		PointsAwarded:   nil, // serializes as null, clearing the old grade
	}
}

// CreatePayload builds the first-submission payload.
func CreatePayload(challengeRef, email, code string, pointsRequested float64) api.NewSubmission {
	return api.NewSubmission{
		Challenge:       challengeRef,
		UserEmail:       email,
		Code:            code,
		Status:          api.StatusPending,
		PointsRequested: pointsRequested,
	}
}
