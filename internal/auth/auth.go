// Package auth is the injected current-user context: it hydrates from the
// persisted session at startup, exposes login/logout, and answers role
// questions for screen gating.
package auth

import (
	"context"
	"fmt"

	"codequest/internal/api"
	"codequest/internal/session"
)

// Service holds current-user state for the lifetime of the process.
type Service struct {
	client   *api.Client
	sessions *session.Store
	user     *session.User
}

// New builds the auth context and hydrates it from the persisted session.
func New(client *api.Client, sessions *session.Store) *Service {
	return &Service{
		client:   client,
		sessions: sessions,
		user:     sessions.User(),
	}
}

// CurrentUser returns the logged-in user, or nil.
func (s *Service) CurrentUser() *session.User {
	return s.user
}

// IsAuthenticated reports whether a user is logged in.
func (s *Service) IsAuthenticated() bool {
	return s.user != nil
}

// IsAdmin reports whether the current user carries the admin role.
func (s *Service) IsAdmin() bool {
	return s.user.IsAdmin()
}

// Login authenticates against the platform and updates both the persisted
// session and the in-memory state.
func (s *Service) Login(ctx context.Context, email, password string) (*session.User, error) {
	resp, err := s.client.Login(ctx, email, password, sessionWriter{s.sessions})
	if err != nil {
		return nil, err
	}

	user := toSessionUser(resp.User)
	if user == nil {
		user = &session.User{Email: email}
	}
	s.user = user
	return user, nil
}

// Logout clears the persisted session and the in-memory user.
func (s *Service) Logout() error {
	s.user = nil
	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// sessionWriter adapts session.Store to the api client's persistence hook,
// converting the wire user to the cached shape.
type sessionWriter struct {
	store *session.Store
}

func (w sessionWriter) SetToken(token string) error {
	return w.store.SetToken(token)
}

func (w sessionWriter) SetUser(u *api.User) error {
	return w.store.SetUser(toSessionUser(u))
}

func toSessionUser(u *api.User) *session.User {
	if u == nil {
		return nil
	}
	return &session.User{
		ID:    u.ID.String(),
		Email: u.Email,
		Roles: u.Roles,
	}
}
