// Package session persists the auth token and cached user record between
// runs. It is pure read/write over the local store; auth decisions live in
// internal/auth.
package session

import (
	"encoding/json"

	"codequest/internal/store"
)

const (
	tokenKey = "session.token"
	userKey  = "session.user"
)

// User is the cached user record from the last successful login. The server
// owns the authoritative copy; this one may be stale.
type User struct {
	ID          string   `json:"id,omitempty"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}

// Name returns the best display label for the user.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Store reads and writes the persisted session.
type Store struct {
	kv *store.Store
}

// NewStore creates a session store over the local database.
func NewStore(kv *store.Store) *Store {
	return &Store{kv: kv}
}

// Token returns the stored auth token, or "" when logged out.
func (s *Store) Token() string {
	v, _, _ := s.kv.Get(tokenKey)
	return v
}

// SetToken stores the auth token. An empty token removes it.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.kv.Delete(tokenKey)
	}
	return s.kv.Set(tokenKey, token)
}

// User returns the cached user record, or nil when absent or unreadable.
func (s *Store) User() *User {
	raw, found, err := s.kv.Get(userKey)
	if err != nil || !found {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

// SetUser caches the user record.
func (s *Store) SetUser(u *User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.kv.Set(userKey, string(raw))
}

// Clear removes the token and cached user.
func (s *Store) Clear() error {
	if err := s.kv.Delete(tokenKey); err != nil {
		return err
	}
	return s.kv.Delete(userKey)
}
