package admin

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequest/internal/api"
)

func TestDeleteAccountSelfGuard(t *testing.T) {
	svc := NewService(api.NewClient("http://unused", "project-123", staticTokens("tok"), nil))

	target := api.Profile{ID: "p1", UserEmail: "Admin@Example.com"}
	err := svc.DeleteAccount(context.Background(), target, "admin@example.com")

	assert.ErrorIs(t, err, ErrSelfDelete)
}

func TestDeleteAccountMissingEmail(t *testing.T) {
	svc := NewService(api.NewClient("http://unused", "project-123", staticTokens("tok"), nil))

	err := svc.DeleteAccount(context.Background(), api.Profile{ID: "p1"}, "admin@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email")
}

func TestDeleteAccountCascade(t *testing.T) {
	var deleted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/submissions":
			_, _ = w.Write([]byte(`[
				{"id":"s1","userEmail":"Kim@Example.com"},
				{"id":"s2","userEmail":"kim@example.com"},
				{"id":"s3","userEmail":"lee@example.com"}
			]`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/users":
			_, _ = w.Write([]byte(`[
				{"id":"u1","email":"kim@example.com"},
				{"id":"u2","email":"lee@example.com"}
			]`))
		case r.Method == http.MethodDelete:
			deleted = append(deleted, r.URL.Path)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

	target := api.Profile{ID: "p1", UserEmail: "kim@example.com"}
	err := svc.DeleteAccount(context.Background(), target, "admin@example.com")
	require.NoError(t, err)

	// Submissions match case-insensitively; lee's records stay.
	assert.Equal(t, []string{
		"/api/submissions/s1",
		"/api/submissions/s2",
		"/api/profiles/p1",
		"/api/users/u1",
	}, deleted)
}

func TestDeleteAccountPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/submissions":
			_, _ = w.Write([]byte(`[{"id":"s1","userEmail":"kim@example.com"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/users":
			_, _ = w.Write([]byte(`[{"id":"u1","email":"kim@example.com"}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/submissions/s1":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

	target := api.Profile{ID: "p1", UserEmail: "kim@example.com"}
	err := svc.DeleteAccount(context.Background(), target, "admin@example.com")

	// The cascade continues past the failed step and reports it at the end.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete submission s1")
}

func TestLoadDashboard(t *testing.T) {
	t.Run("secondary sections degrade", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/submissions":
				_, _ = w.Write([]byte(`[{"id":"s1","status":"pending"}]`))
			default:
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}
		}))
		defer server.Close()

		svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

		dash, err := svc.LoadDashboard(context.Background())
		require.NoError(t, err)
		assert.Len(t, dash.Pending, 1)
		assert.Empty(t, dash.Profiles)
		assert.Empty(t, dash.Users)
		assert.Empty(t, dash.Challenges)
	})

	t.Run("pending failure is fatal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"down"}`))
		}))
		defer server.Close()

		svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

		_, err := svc.LoadDashboard(context.Background())
		require.Error(t, err)
	})
}

func TestCreateAccount(t *testing.T) {
	type created struct {
		path string
		body string
	}
	var posts []created
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			raw, _ := io.ReadAll(r.Body)
			posts = append(posts, created{path: r.URL.Path, body: string(raw)})
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

	err := svc.CreateAccount(context.Background(), "kim@example.com", "secret", "user")
	require.NoError(t, err)

	require.Len(t, posts, 2)
	assert.Equal(t, "/api/users", posts[0].path)
	assert.Contains(t, posts[0].body, `"kim@example.com"`)

	// The seeded profile takes its display name from the email local part.
	assert.Equal(t, "/api/profiles", posts[1].path)
	assert.Contains(t, posts[1].body, `"displayName":"kim"`)
}
