package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codequest/internal/api"
	"codequest/internal/catalog"
)

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 10},
		{0, 10},
		{10, 10},
		{15, 10},
		{20, 25},
		{25, 25},
		{33, 25},
		{60, 50},
		{70, 75},
		{85, 90},
		{95, 90},
		{100, 100},
		{150, 100},
	}

	for _, tt := range tests {
		if got := ClampPercent(tt.in); got != tt.want {
			t.Errorf("ClampPercent(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMaxPoints(t *testing.T) {
	challenges := []catalog.Challenge{
		{ID: "fizzbuzz", Points: 150},
		{ID: "unset"},
	}

	tests := []struct {
		name string
		sub  api.Submission
		want float64
	}{
		{"challenge value", api.Submission{Challenge: "fizzbuzz"}, 150},
		{"challenge without points defaults", api.Submission{Challenge: "unset"}, 100},
		{"unknown challenge uses requested", api.Submission{Challenge: "mystery", PointsRequested: 60}, 60},
		{"nothing usable defaults", api.Submission{Challenge: "mystery"}, 100},
	}

	for _, tt := range tests {
		if got := MaxPoints(tt.sub, challenges); got != tt.want {
			t.Errorf("%s: MaxPoints() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAwardedPoints(t *testing.T) {
	tests := []struct {
		max     float64
		percent int
		want    float64
	}{
		{100, 100, 100},
		{100, 75, 75},
		{100, 10, 10},
		{150, 25, 38},  // 37.5 rounds up
		{150, 75, 113}, // 112.5 rounds up
		{33, 50, 17},   // 16.5 rounds up
	}

	for _, tt := range tests {
		if got := AwardedPoints(tt.max, tt.percent); got != tt.want {
			t.Errorf("AwardedPoints(%v, %d) = %v, want %v", tt.max, tt.percent, got, tt.want)
		}
	}
}

type patchRecord struct {
	path string
	body map[string]any
}

func gradingServer(t *testing.T, patches *[]patchRecord) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			*patches = append(*patches, patchRecord{path: r.URL.Path, body: body})
			_, _ = w.Write([]byte(`{"id":"s1"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
}

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestApprove(t *testing.T) {
	var patches []patchRecord
	server := gradingServer(t, &patches)
	defer server.Close()

	svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

	sub := api.Submission{ID: "s1", Challenge: "fizzbuzz", PointsRequested: 150}
	challenges := []catalog.Challenge{{ID: "fizzbuzz", Points: 150}}

	awarded, err := svc.Approve(context.Background(), sub, 75, challenges)
	require.NoError(t, err)
	assert.Equal(t, float64(113), awarded)

	require.Len(t, patches, 1)
	assert.Equal(t, "/api/submissions/s1", patches[0].path)
	assert.Equal(t, "approved", patches[0].body["status"])
	assert.Equal(t, float64(113), patches[0].body["pointsAwarded"])
	assert.Equal(t, float64(150), patches[0].body["pointsRequested"])
}

func TestApproveClampsPercent(t *testing.T) {
	var patches []patchRecord
	server := gradingServer(t, &patches)
	defer server.Close()

	svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

	sub := api.Submission{ID: "s1", Challenge: "fizzbuzz"}
	challenges := []catalog.Challenge{{ID: "fizzbuzz", Points: 100}}

	awarded, err := svc.Approve(context.Background(), sub, 999, challenges)
	require.NoError(t, err)
	assert.Equal(t, float64(100), awarded)
}

func TestReject(t *testing.T) {
	var patches []patchRecord
	server := gradingServer(t, &patches)
	defer server.Close()

	svc := NewService(api.NewClient(server.URL, "project-123", staticTokens("tok"), nil))

	err := svc.Reject(context.Background(), api.Submission{ID: "s1"})
	require.NoError(t, err)

	require.Len(t, patches, 1)
	assert.Equal(t, "rejected", patches[0].body["status"])
	assert.Equal(t, float64(0), patches[0].body["pointsAwarded"])
}
