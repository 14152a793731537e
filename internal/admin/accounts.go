package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"codequest/internal/api"
)

// ErrSelfDelete is returned when an admin tries to delete the account they
// are logged in with.
var ErrSelfDelete = errors.New("cannot delete your own logged-in account")

// Dashboard is everything the admin screen shows. Secondary sections load
// best-effort: a failed profile or user fetch leaves that slice empty
// rather than failing the load.
type Dashboard struct {
	Pending    []api.Submission
	Profiles   []api.Profile
	Users      []api.User
	Challenges []api.Challenge
}

// LoadDashboard fetches the admin view. Only the pending-submission fetch
// is fatal; every other section degrades to empty.
func (s *Service) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	pending, err := s.client.ListPendingSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pending submissions: %w", err)
	}

	d := &Dashboard{Pending: pending}
	if profiles, err := s.client.ListProfiles(ctx); err == nil {
		d.Profiles = profiles
	}
	if users, err := s.client.ListUsers(ctx); err == nil {
		d.Users = users
	}
	if challenges, err := s.client.ListChallenges(ctx); err == nil {
		d.Challenges = challenges
	}
	return d, nil
}

// CreateAccount registers a user and seeds a profile record so the account
// shows up in the admin listing. Profile creation is best-effort: the
// profile may already exist.
func (s *Service) CreateAccount(ctx context.Context, email, password, role string) error {
	if err := s.client.CreateUser(ctx, email, password, []string{role}); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	displayName := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		displayName = email[:at]
	}
	_ = s.client.CreateProfile(ctx, api.Profile{
		UserEmail:   email,
		DisplayName: displayName,
		TotalScore:  0,
	})
	return nil
}

// DeleteAccount removes everything belonging to an email: all submissions,
// the profile record, then the auth account. Each step is independently
// best-effort; the operation succeeds if the primary identity records are
// gone, and the returned error (a multierror, possibly nil) reports what
// was skipped along the way.
func (s *Service) DeleteAccount(ctx context.Context, target api.Profile, selfEmail string) error {
	email := strings.TrimSpace(target.UserEmail)
	if email == "" {
		return errors.New("profile has no email address")
	}
	if selfEmail != "" && strings.EqualFold(selfEmail, email) {
		return ErrSelfDelete
	}

	var partial *multierror.Error

	// Submissions first, so score data never outlives the account.
	subs, err := s.client.ListSubmissions(ctx)
	if err != nil {
		partial = multierror.Append(partial, fmt.Errorf("list submissions: %w", err))
		subs = nil
	}
	for _, sub := range subs {
		if !strings.EqualFold(sub.UserEmail, email) || sub.ID == "" {
			continue
		}
		if err := s.client.DeleteSubmission(ctx, sub.ID.String()); err != nil {
			partial = multierror.Append(partial, fmt.Errorf("delete submission %s: %w", sub.ID, err))
		}
	}

	if id := target.Ref(); id != "" {
		if err := s.client.DeleteProfile(ctx, id); err != nil {
			partial = multierror.Append(partial, fmt.Errorf("delete profile: %w", err))
		}
	}

	users, err := s.client.ListUsers(ctx)
	if err != nil {
		partial = multierror.Append(partial, fmt.Errorf("list users: %w", err))
	}
	if user, ok := findUserByEmail(users, email); ok && user.ID != "" {
		if err := s.client.DeleteUser(ctx, user.ID.String()); err != nil {
			partial = multierror.Append(partial, fmt.Errorf("delete user account: %w", err))
		}
	}

	return partial.ErrorOrNil()
}

func findUserByEmail(users []api.User, email string) (api.User, bool) {
	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.Email), email) {
			return u, true
		}
	}
	return api.User{}, false
}
