package api

import (
	"context"
	"fmt"
	"net/http"
)

// SessionWriter persists a session after login. *session.Store satisfies it.
type SessionWriter interface {
	SetToken(token string) error
	SetUser(u *User) error
}

// Login posts credentials and, on success, persists the token and user
// record to sessions. When the server omits the user object, a minimal
// record holding just the email is cached instead.
func (c *Client) Login(ctx context.Context, email, password string, sessions SessionWriter) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.request(ctx, "/api/login", requestOpts{
		method: http.MethodPost,
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		return nil, err
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	if sessions != nil {
		if err := sessions.SetToken(token); err != nil {
			return nil, fmt.Errorf("store token: %w", err)
		}
		user := resp.User
		if user == nil {
			user = &User{Email: email}
		}
		if err := sessions.SetUser(user); err != nil {
			return nil, fmt.Errorf("store user: %w", err)
		}
	}

	return &resp, nil
}

// Users

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.request(ctx, "/api/users", requestOpts{auth: true}, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, email, password string, roles []string) error {
	if len(roles) == 0 {
		roles = []string{"user"}
	}
	body := map[string]any{"email": email, "password": password, "roles": roles}
	return c.request(ctx, "/api/users", requestOpts{method: http.MethodPost, body: body, auth: true}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.request(ctx, "/api/users/"+id, requestOpts{method: http.MethodDelete, auth: true}, nil)
}

// Challenges

func (c *Client) ListChallenges(ctx context.Context) ([]Challenge, error) {
	var out []Challenge
	err := c.request(ctx, "/api/challenges", requestOpts{}, &out)
	return out, err
}

func (c *Client) CreateChallenge(ctx context.Context, challenge Challenge) error {
	return c.request(ctx, "/api/challenges", requestOpts{method: http.MethodPost, body: challenge, auth: true}, nil)
}

// Profiles

func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	var out []Profile
	err := c.request(ctx, "/api/profiles", requestOpts{auth: true}, &out)
	return out, err
}

func (c *Client) CreateProfile(ctx context.Context, p Profile) error {
	body := map[string]any{
		"userEmail":   p.UserEmail,
		"displayName": p.DisplayName,
		"totalScore":  float64(p.TotalScore),
	}
	return c.request(ctx, "/api/profiles", requestOpts{method: http.MethodPost, body: body, auth: true}, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) error {
	return c.request(ctx, "/api/profiles/"+id, requestOpts{method: http.MethodPatch, body: patch, auth: true}, nil)
}

func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	return c.request(ctx, "/api/profiles/"+id, requestOpts{method: http.MethodDelete, auth: true}, nil)
}

// Submissions

func (c *Client) ListSubmissions(ctx context.Context) ([]Submission, error) {
	var out []Submission
	err := c.request(ctx, "/api/submissions", requestOpts{auth: true}, &out)
	return out, err
}

// ListPendingSubmissions prefers a server-side status filter. Not every
// project config supports filtered queries, so on any error it falls back
// to fetching everything and filtering here.
func (c *Client) ListPendingSubmissions(ctx context.Context) ([]Submission, error) {
	var filtered []Submission
	err := c.request(ctx, "/api/submissions?status=pending", requestOpts{auth: true}, &filtered)
	if err == nil {
		return filtered, nil
	}

	all, err := c.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	var out []Submission
	for _, s := range all {
		if s.Status == StatusPending {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *Client) CreateSubmission(ctx context.Context, s NewSubmission) (*Submission, error) {
	var out Submission
	err := c.request(ctx, "/api/submissions", requestOpts{method: http.MethodPost, body: s, auth: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSubmission(ctx context.Context, id string, patch SubmissionPatch) (*Submission, error) {
	var out Submission
	err := c.request(ctx, "/api/submissions/"+id, requestOpts{method: http.MethodPatch, body: patch, auth: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	return c.request(ctx, "/api/submissions/"+id, requestOpts{method: http.MethodDelete, auth: true}, nil)
}
