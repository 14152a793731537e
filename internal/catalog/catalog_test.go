package catalog

import (
	"context"
	"errors"
	"testing"

	"codequest/internal/api"
)

func TestClassifyDifficulty(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Beginner", DifficultyBeginner},
		{"beginner", DifficultyBeginner},
		{"Gemiddeld", DifficultyIntermediate},
		{"Intermediate", DifficultyIntermediate},
		{"Gevorderd", DifficultyAdvanced},
		{"Advanced", DifficultyAdvanced},
		{"", DifficultyBeginner},
		{"weird label", DifficultyBeginner},
	}

	for _, tt := range tests {
		if got := ClassifyDifficulty(tt.label); got != tt.want {
			t.Errorf("ClassifyDifficulty(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	remote := []api.Challenge{
		{ID: "a", Title: "A", Difficulty: "Beginner", Points: 100},
		{LegacyID: "b", Title: "B", Difficulty: "Gevorderd"},
		{Title: "no id, dropped"},
	}

	got := Normalize(remote)

	if len(got) != 2 {
		t.Fatalf("Normalize() has %d entries, want 2", len(got))
	}
	if got[0].ID != "a" || got[0].DifficultyClass != DifficultyBeginner {
		t.Errorf("Normalize()[0] = %+v", got[0])
	}
	if got[1].ID != "b" || got[1].DifficultyClass != DifficultyAdvanced {
		t.Errorf("Normalize()[1] = %+v", got[1])
	}
}

func TestMaxPoints(t *testing.T) {
	tests := []struct {
		points float64
		want   float64
	}{
		{150, 150},
		{0, 100},
		{-5, 100},
	}

	for _, tt := range tests {
		c := Challenge{Points: tt.points}
		if got := c.MaxPoints(); got != tt.want {
			t.Errorf("MaxPoints() with %v = %v, want %v", tt.points, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	list := []Challenge{
		{ID: "a", Title: "FizzBuzz", Description: "classic warmup", DifficultyClass: DifficultyBeginner},
		{ID: "b", Title: "Sorter", Description: "sort things", DifficultyClass: DifficultyIntermediate},
		{ID: "c", Title: "Interpreter", Description: "tiny language", DifficultyClass: DifficultyAdvanced},
	}

	t.Run("no filters", func(t *testing.T) {
		if got := Filter(list, "", nil); len(got) != 3 {
			t.Errorf("Filter() has %d entries, want 3", len(got))
		}
	})

	t.Run("query matches title", func(t *testing.T) {
		got := Filter(list, "fizz", nil)
		if len(got) != 1 || got[0].ID != "a" {
			t.Errorf("Filter() = %+v, want fizzbuzz only", got)
		}
	})

	t.Run("query matches description", func(t *testing.T) {
		got := Filter(list, "LANGUAGE", nil)
		if len(got) != 1 || got[0].ID != "c" {
			t.Errorf("Filter() = %+v, want interpreter only", got)
		}
	})

	t.Run("class filter", func(t *testing.T) {
		got := Filter(list, "", map[string]bool{DifficultyIntermediate: true})
		if len(got) != 1 || got[0].ID != "b" {
			t.Errorf("Filter() = %+v, want sorter only", got)
		}
	})

	t.Run("all classes off matches all", func(t *testing.T) {
		got := Filter(list, "", map[string]bool{DifficultyIntermediate: false})
		if len(got) != 3 {
			t.Errorf("Filter() has %d entries, want 3", len(got))
		}
	})

	t.Run("query and class combined", func(t *testing.T) {
		got := Filter(list, "sort", map[string]bool{DifficultyBeginner: true, DifficultyIntermediate: true})
		if len(got) != 1 || got[0].ID != "b" {
			t.Errorf("Filter() = %+v, want sorter only", got)
		}
	})
}

func TestFallback(t *testing.T) {
	got := Fallback()
	if len(got) == 0 {
		t.Fatal("Fallback() is empty")
	}
	for _, c := range got {
		if c.ID == "" {
			t.Errorf("fallback challenge %q has no id", c.Title)
		}
		if c.DifficultyClass == "" {
			t.Errorf("fallback challenge %q has no difficulty class", c.Title)
		}
	}
}

type fakeLister struct {
	challenges []api.Challenge
	err        error
}

func (f fakeLister) ListChallenges(ctx context.Context) ([]api.Challenge, error) {
	return f.challenges, f.err
}

func TestServiceLoad(t *testing.T) {
	t.Run("remote", func(t *testing.T) {
		svc := NewService(fakeLister{challenges: []api.Challenge{{ID: "x", Title: "X"}}})
		got := svc.Load(context.Background())
		if len(got) != 1 || got[0].ID != "x" {
			t.Errorf("Load() = %+v, want remote entry", got)
		}
	})

	t.Run("remote error falls back", func(t *testing.T) {
		svc := NewService(fakeLister{err: errors.New("down")})
		got := svc.Load(context.Background())
		if len(got) == 0 {
			t.Error("Load() empty, want fallback catalog")
		}
	})

	t.Run("empty remote falls back", func(t *testing.T) {
		svc := NewService(fakeLister{})
		got := svc.Load(context.Background())
		if len(got) == 0 {
			t.Error("Load() empty, want fallback catalog")
		}
	})

	t.Run("remote with only unusable entries falls back", func(t *testing.T) {
		svc := NewService(fakeLister{challenges: []api.Challenge{{Title: "no id"}}})
		got := svc.Load(context.Background())
		if len(got) == 0 {
			t.Error("Load() empty, want fallback catalog")
		}
	})
}
