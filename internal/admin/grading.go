// Package admin implements the review side of the platform: grading
// pending submissions with partial credit and managing accounts.
package admin

import (
	"context"
	"fmt"
	"math"

	"codequest/internal/api"
	"codequest/internal/catalog"
)

// Percents is the closed set of partial-credit choices. Grading always
// awards one of these fractions of a challenge's max points.
var Percents = []int{10, 25, 50, 75, 90, 100}

// ClampPercent forces an arbitrary selection into the valid range. Values
// outside [10, 100] clamp to the nearest bound; in-range values that are
// not in Percents snap to the nearest member.
func ClampPercent(p int) int {
	if p <= Percents[0] {
		return Percents[0]
	}
	if p >= Percents[len(Percents)-1] {
		return Percents[len(Percents)-1]
	}
	best := Percents[0]
	for _, candidate := range Percents {
		if abs(candidate-p) < abs(best-p) {
			best = candidate
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// MaxPoints resolves the max points for a submission: the linked challenge's
// value, else the submission's requested points, else the default.
func MaxPoints(s api.Submission, challenges []catalog.Challenge) float64 {
	if c, ok := catalog.Find(challenges, s.Challenge.String()); ok {
		return c.MaxPoints()
	}
	if s.PointsRequested > 0 {
		return float64(s.PointsRequested)
	}
	return catalog.DefaultMaxPoints
}

// AwardedPoints computes the grade for a percent selection.
func AwardedPoints(maxPoints float64, percent int) float64 {
	return math.Round(maxPoints * float64(percent) / 100)
}

// Service runs admin operations against the platform.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Pending lists submissions awaiting review.
func (s *Service) Pending(ctx context.Context) ([]api.Submission, error) {
	return s.client.ListPendingSubmissions(ctx)
}

// Approve grades a submission at the given percent of its max points and
// marks it approved.
func (s *Service) Approve(ctx context.Context, sub api.Submission, percent int, challenges []catalog.Challenge) (float64, error) {
	max := MaxPoints(sub, challenges)
	awarded := AwardedPoints(max, ClampPercent(percent))

	requested := float64(sub.PointsRequested)
	if requested <= 0 {
		requested = max
	}

	_, err := s.client.UpdateSubmission(ctx, sub.ID.String(), api.SubmissionPatch{
		Status:          api.StatusApproved,
		PointsAwarded:   &awarded,
		PointsRequested: &requested,
	})
	if err != nil {
		return 0, fmt.Errorf("approve submission %s: %w", sub.ID, err)
	}
	return awarded, nil
}

// Reject marks a submission rejected. Awarded points go to zero regardless
// of any percent selection.
func (s *Service) Reject(ctx context.Context, sub api.Submission) error {
	zero := 0.0
	_, err := s.client.UpdateSubmission(ctx, sub.ID.String(), api.SubmissionPatch{
		Status:        api.StatusRejected,
		PointsAwarded: &zero,
	})
	if err != nil {
		return fmt.Errorf("reject submission %s: %w", sub.ID, err)
	}
	return nil
}
