package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequest/internal/debuglog"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

type memSession struct {
	token string
	user  *User
}

func (m *memSession) SetToken(token string) error { m.token = token; return nil }
func (m *memSession) SetUser(u *User) error       { m.user = u; return nil }

func TestRequestHeaders(t *testing.T) {
	var gotProject, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotProject = r.Header.Get("novi-education-project-id")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "project-123", staticTokens("tok-abc"), nil)
	_, err := client.ListSubmissions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "project-123", gotProject)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestRequestFailsFastWithoutProjectID(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil, nil)
	_, err := client.ListChallenges(context.Background())

	assert.ErrorIs(t, err, ErrNoProjectID)
	assert.False(t, called, "no request should reach the server")
}

func TestRequestFailsFastWithoutToken(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, "project-123", staticTokens(""), nil)
	_, err := client.ListSubmissions(context.Background())

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, called, "no request should reach the server")
}

func TestErrorMessagePreference(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"message":"bad email","error":"other"}`, "bad email"},
		{"error field", 400, `{"error":"invalid credentials"}`, "invalid credentials"},
		{"raw text", 500, "something broke", "something broke"},
		{"status text", 406, "", "Not Acceptable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "project-123", nil, nil)
			_, err := client.ListChallenges(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestUnparseableBodyReadsAsNull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "project-123", nil, nil)
	challenges, err := client.ListChallenges(context.Background())

	require.NoError(t, err)
	assert.Nil(t, challenges)
}

func TestLogin(t *testing.T) {
	t.Run("token field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/login", r.URL.Path)
			_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":"u1","email":"kim@example.com","roles":["admin"]}}`))
		}))
		defer server.Close()

		sessions := &memSession{}
		client := NewClient(server.URL, "project-123", nil, nil)
		resp, err := client.Login(context.Background(), "kim@example.com", "secret", sessions)

		require.NoError(t, err)
		assert.Equal(t, "tok-1", resp.Token)
		assert.Equal(t, "tok-1", sessions.token)
		require.NotNil(t, sessions.user)
		assert.Equal(t, "kim@example.com", sessions.user.Email)
		assert.Equal(t, []string{"admin"}, sessions.user.Roles)
	})

	t.Run("accessToken fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"accessToken":"tok-2"}`))
		}))
		defer server.Close()

		sessions := &memSession{}
		client := NewClient(server.URL, "project-123", nil, nil)
		_, err := client.Login(context.Background(), "kim@example.com", "secret", sessions)

		require.NoError(t, err)
		assert.Equal(t, "tok-2", sessions.token)
		// No user object in the response; a minimal record is cached.
		require.NotNil(t, sessions.user)
		assert.Equal(t, "kim@example.com", sessions.user.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user":{"email":"kim@example.com"}}`))
		}))
		defer server.Close()

		sessions := &memSession{}
		client := NewClient(server.URL, "project-123", nil, nil)
		_, err := client.Login(context.Background(), "kim@example.com", "secret", sessions)

		assert.ErrorIs(t, err, ErrMissingToken)
		assert.Empty(t, sessions.token)
	})
}

func TestListPendingSubmissions(t *testing.T) {
	t.Run("server-side filter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "pending", r.URL.Query().Get("status"))
			_, _ = w.Write([]byte(`[{"id":"s1","status":"pending"}]`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "project-123", staticTokens("tok"), nil)
		got, err := client.ListPendingSubmissions(context.Background())

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ID("s1"), got[0].ID)
	})

	t.Run("falls back to client-side filter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"filters not supported"}`))
				return
			}
			_, _ = w.Write([]byte(`[
				{"id":"s1","status":"pending"},
				{"id":"s2","status":"approved"},
				{"id":"s3","status":"pending"}
			]`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "project-123", staticTokens("tok"), nil)
		got, err := client.ListPendingSubmissions(context.Background())

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ID("s1"), got[0].ID)
		assert.Equal(t, ID("s3"), got[1].ID)
	})
}

func TestUpdateSubmissionClearsGrade(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/submissions/s1", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		_, _ = w.Write([]byte(`{"id":"s1","status":"pending"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "project-123", staticTokens("tok"), nil)
	code := "print(1)"
	_, err := client.UpdateSubmission(context.Background(), "s1", SubmissionPatch{
		Status:        "pending",
		Code:          &code,
		PointsAwarded: nil,
	})

	require.NoError(t, err)
	// nil PointsAwarded must serialize as an explicit null to clear the grade.
	assert.Contains(t, gotBody, `"pointsAwarded":null`)
}

func TestRequestLogCapsBodySummary(t *testing.T) {
	type entry struct {
		Event   string         `json:"event"`
		Details map[string]any `json:"details"`
	}
	entries := make(chan entry, 16)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e entry
		_ = json.NewDecoder(r.Body).Decode(&e)
		entries <- e
	}))
	defer collector.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"s1"}`))
	}))
	defer backend.Close()

	log := debuglog.New(true, collector.URL)
	defer log.Sync()
	client := NewClient(backend.URL, "project-123", staticTokens("tok"), log)

	_, err := client.CreateSubmission(context.Background(), NewSubmission{
		Challenge: "fizzbuzz",
		UserEmail: "kim@example.com",
		Code:      strings.Repeat("x", 10000),
		Status:    StatusPending,
	})
	require.NoError(t, err)

	// The sink posts in the background; wait for the request entry.
	deadline := time.After(3 * time.Second)
	for {
		select {
		case e := <-entries:
			if e.Event != "api.request" {
				continue
			}
			body, ok := e.Details["body"].(string)
			require.True(t, ok, "body summary should be a string")
			assert.Contains(t, body, "(truncated)")
			assert.Less(t, len(body), 4200, "summary must be capped, not the full payload")
			return
		case <-deadline:
			t.Fatal("no request entry reached the collector")
		}
	}
}
