package detail

import (
	"testing"

	"codequest/internal/api"
	"codequest/internal/catalog"
	"codequest/internal/screens"
)

// A fetch started by one detail screen can finish after that screen was
// popped and another detail screen took its place. The late result must not
// populate the newer instance, or a submit there would target the wrong
// challenge.
func TestLoadFromTornDownInstanceIsDropped(t *testing.T) {
	alpha := New(screens.Deps{}, "alpha")
	beta := New(screens.Deps{}, "beta")

	stale := loadedMsg{
		owner:     alpha,
		challenge: catalog.Challenge{ID: "alpha", Title: "Alpha"},
		found:     true,
	}
	updated, _ := beta.Update(stale)
	got := updated.(*DetailScreen)
	if !got.loading {
		t.Fatal("a stale load finished a different instance")
	}
	if got.challenge.ID != "" {
		t.Errorf("challenge = %q, want empty", got.challenge.ID)
	}

	own := loadedMsg{
		owner:     beta,
		challenge: catalog.Challenge{ID: "beta", Title: "Beta"},
		found:     true,
	}
	updated, _ = beta.Update(own)
	got = updated.(*DetailScreen)
	if got.loading {
		t.Error("own load was not applied")
	}
	if got.challenge.ID != "beta" {
		t.Errorf("challenge = %q, want %q", got.challenge.ID, "beta")
	}
}

func TestSubmitResultFromTornDownInstanceIsDropped(t *testing.T) {
	alpha := New(screens.Deps{}, "alpha")
	beta := New(screens.Deps{}, "beta")
	beta.busy = true

	sub := &api.Submission{ID: "s1", Status: api.StatusPending}

	updated, _ := beta.Update(submitDoneMsg{owner: alpha, sub: sub})
	got := updated.(*DetailScreen)
	if !got.busy {
		t.Error("a stale submit result cleared the busy state")
	}
	if got.latest != nil {
		t.Error("a stale submit result attached a submission")
	}

	updated, _ = beta.Update(submitDoneMsg{owner: beta, sub: sub})
	got = updated.(*DetailScreen)
	if got.busy {
		t.Error("own submit result was not applied")
	}
	if got.latest == nil || got.latest.ID != "s1" {
		t.Errorf("latest = %v, want submission s1", got.latest)
	}
}
