package comments

import (
	"context"
	"errors"
	"testing"
	"time"

	"codequest/internal/store"
)

type memRepo struct {
	added []store.Comment
}

func (m *memRepo) Add(ctx context.Context, c store.Comment) error {
	m.added = append(m.added, c)
	return nil
}

func (m *memRepo) ForChallenge(ctx context.Context, challengeID string) ([]store.Comment, error) {
	var out []store.Comment
	for _, c := range m.added {
		if c.ChallengeID == challengeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestPost(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	got, err := svc.Post(context.Background(), "fizzbuzz", "Kim", "kim@example.com", "  nice one  ")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	if got.ID == "" {
		t.Error("comment has no id")
	}
	if got.Body != "nice one" {
		t.Errorf("Body = %q, want trimmed", got.Body)
	}
	if got.AuthorName != "Kim" || got.AuthorEmail != "kim@example.com" {
		t.Errorf("author = %q/%q", got.AuthorName, got.AuthorEmail)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}
	if len(repo.added) != 1 {
		t.Errorf("repo has %d comments, want 1", len(repo.added))
	}
}

func TestPostEmptyBody(t *testing.T) {
	svc := NewService(&memRepo{})

	_, err := svc.Post(context.Background(), "fizzbuzz", "Kim", "kim@example.com", "   \n ")
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Post(blank) = %v, want ErrEmpty", err)
	}
}

func TestPostNameFallsBackToEmail(t *testing.T) {
	svc := NewService(&memRepo{})

	got, err := svc.Post(context.Background(), "fizzbuzz", "  ", "kim@example.com", "hello")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if got.AuthorName != "kim@example.com" {
		t.Errorf("AuthorName = %q, want email fallback", got.AuthorName)
	}
}
