// Package catalog provides the challenge list. The remote API is the
// preferred source; when it is unreachable the embedded static catalog is
// served instead so the app stays browsable offline.
package catalog

import (
	"context"
	"strings"

	"codequest/internal/api"
)

// Difficulty classes used for filtering. Remote difficulty labels are free
// text (historically Dutch or English); they normalize onto these.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// DefaultMaxPoints applies when a challenge has no usable point value.
const DefaultMaxPoints = 100

// Challenge is a normalized catalog entry: id flattened across the backend's
// aliases and difficulty mapped to a known class.
type Challenge struct {
	ID              string
	Title           string
	Description     string
	Difficulty      string
	DifficultyClass string
	Points          float64
}

// MaxPoints returns the challenge's point value, defaulting when the value
// is unset or non-positive.
func (c Challenge) MaxPoints() float64 {
	if c.Points > 0 {
		return c.Points
	}
	return DefaultMaxPoints
}

// Lister is the slice of the API client the catalog needs.
type Lister interface {
	ListChallenges(ctx context.Context) ([]api.Challenge, error)
}

// Service loads and caches nothing: every call fetches fresh, matching the
// per-screen fetch model of the UI.
type Service struct {
	client Lister
}

func NewService(client Lister) *Service {
	return &Service{client: client}
}

// Load returns the remote catalog, or the embedded fallback when the remote
// fetch fails or yields nothing usable.
func (s *Service) Load(ctx context.Context) []Challenge {
	if s.client != nil {
		remote, err := s.client.ListChallenges(ctx)
		if err == nil {
			normalized := Normalize(remote)
			if len(normalized) > 0 {
				return normalized
			}
		}
	}
	return Fallback()
}

// ByID returns the challenge with the given id from Load's result.
func (s *Service) ByID(ctx context.Context, id string) (Challenge, bool) {
	return Find(s.Load(ctx), id)
}

// Normalize converts wire challenges to catalog entries, dropping any that
// lack a usable id.
func Normalize(remote []api.Challenge) []Challenge {
	out := make([]Challenge, 0, len(remote))
	for _, c := range remote {
		id := c.Ref()
		if id == "" {
			continue
		}
		out = append(out, Challenge{
			ID:              id,
			Title:           c.Title,
			Description:     c.Description,
			Difficulty:      c.Difficulty,
			DifficultyClass: ClassifyDifficulty(c.Difficulty),
			Points:          float64(c.Points),
		})
	}
	return out
}

// ClassifyDifficulty maps a free-text difficulty label to a class. Unknown
// labels read as beginner.
func ClassifyDifficulty(label string) string {
	v := strings.ToLower(label)
	switch {
	case strings.Contains(v, "beginner"):
		return DifficultyBeginner
	case strings.Contains(v, "gemiddeld"), strings.Contains(v, "intermediate"):
		return DifficultyIntermediate
	case strings.Contains(v, "gevorderd"), strings.Contains(v, "advanced"):
		return DifficultyAdvanced
	default:
		return DifficultyBeginner
	}
}

// Find locates a challenge by id.
func Find(list []Challenge, id string) (Challenge, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}

// Filter applies a search query (title/description substring, case folded)
// and a set of enabled difficulty classes. An empty class set matches all.
func Filter(list []Challenge, query string, classes map[string]bool) []Challenge {
	q := strings.ToLower(strings.TrimSpace(query))

	anyClass := false
	for _, enabled := range classes {
		if enabled {
			anyClass = true
			break
		}
	}

	var out []Challenge
	for _, c := range list {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			continue
		}
		if anyClass && !classes[c.DifficultyClass] {
			continue
		}
		out = append(out, c)
	}
	return out
}
