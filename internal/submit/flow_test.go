package submit_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequest/internal/api"
	"codequest/internal/submit"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

// fakeBackend is an in-memory submissions resource, enough of the platform
// API to run the reconcile loop against.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 1, subs: map[string]map[string]any{}}
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/submissions":
			list := make([]map[string]any, 0, len(f.subs))
			for _, s := range f.subs {
				list = append(list, s)
			}
			_ = json.NewEncoder(w).Encode(list)

		case r.Method == http.MethodPost && r.URL.Path == "/api/submissions":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			id := fmt.Sprintf("s%d", f.nextID)
			f.nextID++
			body["id"] = id
			body["updatedAt"] = fmt.Sprintf("2024-01-0%dT00:00:00Z", f.nextID)
			f.subs[id] = body
			_ = json.NewEncoder(w).Encode(body)

		case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/submissions/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/submissions/")
			existing, ok := f.subs[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var patch map[string]any
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for k, v := range patch {
				existing[k] = v
			}
			_ = json.NewEncoder(w).Encode(existing)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// submitOnce runs the full client-side submit path: fetch, decide, then
// create or update.
func submitOnce(t *testing.T, client *api.Client, email, challengeID, code string) *api.Submission {
	t.Helper()
	ctx := context.Background()

	subs, err := client.ListSubmissions(ctx)
	require.NoError(t, err)

	decision := submit.Decide(subs, email, challengeID, "")
	if decision.Existing != nil {
		patch := submit.UpdatePatch(challengeID, email, code, 100)
		updated, err := client.UpdateSubmission(ctx, decision.Existing.ID.String(), patch)
		require.NoError(t, err)
		return updated
	}

	created, err := client.CreateSubmission(ctx, submit.CreatePayload(challengeID, email, code, 100))
	require.NoError(t, err)
	return created
}

func TestResubmitKeepsSingleRecord(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := api.NewClient(server.URL, "project-123", staticTokens("tok"), nil)

	first := submitOnce(t, client, "kim@example.com", "fizzbuzz", "v1")
	assert.Equal(t, api.StatusPending, first.Status)

	second := submitOnce(t, client, "kim@example.com", "fizzbuzz", "v2")
	assert.Equal(t, first.ID, second.ID, "resubmit must update in place")
	assert.Equal(t, "v2", second.Code)

	third := submitOnce(t, client, "kim@example.com", "fizzbuzz", "v3")
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, "v3", third.Code)

	// One record on the backend, not three.
	all, err := client.ListSubmissions(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestResubmitAfterApprovalResetsGrade(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := api.NewClient(server.URL, "project-123", staticTokens("tok"), nil)
	ctx := context.Background()

	first := submitOnce(t, client, "kim@example.com", "fizzbuzz", "v1")

	// An admin approves it with a grade.
	awarded := 90.0
	_, err := client.UpdateSubmission(ctx, first.ID.String(), api.SubmissionPatch{
		Status:        api.StatusApproved,
		PointsAwarded: &awarded,
	})
	require.NoError(t, err)

	// The reconciler demands confirmation before overwriting an approval.
	subs, err := client.ListSubmissions(ctx)
	require.NoError(t, err)
	decision := submit.Decide(subs, "kim@example.com", "fizzbuzz", "")
	require.NotNil(t, decision.Existing)
	assert.True(t, decision.NeedsConfirm)

	// Confirmed resubmit: same record, pending again, grade cleared.
	second := submitOnce(t, client, "kim@example.com", "fizzbuzz", "v2")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, api.StatusPending, second.Status)
	assert.Nil(t, second.PointsAwarded)

	all, err := client.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSubmissionsAreScopedPerUserAndChallenge(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := api.NewClient(server.URL, "project-123", staticTokens("tok"), nil)

	submitOnce(t, client, "kim@example.com", "fizzbuzz", "kim-fizz")
	submitOnce(t, client, "kim@example.com", "sorter", "kim-sort")
	submitOnce(t, client, "lee@example.com", "fizzbuzz", "lee-fizz")

	all, err := client.ListSubmissions(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3, "distinct user/challenge pairs create distinct records")
}
