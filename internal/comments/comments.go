// Package comments manages the local-only discussion notes attached to a
// challenge. Comments never leave this machine; the backend has no comment
// resource. Posted comments are never edited or deleted.
package comments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"codequest/internal/store"
)

// ErrEmpty is returned when a comment body is blank after trimming.
var ErrEmpty = errors.New("comment is empty")

// Service validates and stores challenge comments.
type Service struct {
	repo store.CommentRepo
	now  func() time.Time
}

func NewService(repo store.CommentRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Post stores a new comment for a challenge. The display name falls back to
// the email when absent.
func (s *Service) Post(ctx context.Context, challengeID, displayName, email, body string) (store.Comment, error) {
	text := strings.TrimSpace(body)
	if text == "" {
		return store.Comment{}, ErrEmpty
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = email
	}

	c := store.Comment{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		AuthorName:  name,
		AuthorEmail: email,
		Body:        text,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Add(ctx, c); err != nil {
		return store.Comment{}, err
	}
	return c, nil
}

// ForChallenge lists a challenge's comments, oldest first.
func (s *Service) ForChallenge(ctx context.Context, challengeID string) ([]store.Comment, error) {
	return s.repo.ForChallenge(ctx, challengeID)
}
