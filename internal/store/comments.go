package store

import (
	"context"
	"time"
)

// Comment is a locally stored note on a challenge. Comments never sync to
// the platform API; they exist only in this machine's database.
type Comment struct {
	ID          string
	ChallengeID string
	AuthorName  string
	AuthorEmail string
	Body        string
	CreatedAt   time.Time
}

// CommentRepo provides access to locally stored challenge comments.
type CommentRepo interface {
	// Add persists a new comment.
	Add(ctx context.Context, c Comment) error

	// ForChallenge returns all comments for a challenge, oldest first.
	ForChallenge(ctx context.Context, challengeID string) ([]Comment, error)
}

// CommentRepo returns a CommentRepo backed by this store.
func (s *Store) CommentRepo() CommentRepo {
	return &commentRepo{store: s}
}

type commentRepo struct {
	store *Store
}

func (r *commentRepo) Add(ctx context.Context, c Comment) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO comments (id, challenge_id, author_name, author_email, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ChallengeID, c.AuthorName, c.AuthorEmail, c.Body,
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *commentRepo) ForChallenge(ctx context.Context, challengeID string) ([]Comment, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, challenge_id, author_name, author_email, body, created_at
		 FROM comments WHERE challenge_id = ? ORDER BY created_at ASC`,
		challengeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.ChallengeID, &c.AuthorName, &c.AuthorEmail, &c.Body, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}
