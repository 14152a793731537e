package catalog

import (
	_ "embed"
	"encoding/json"

	"github.com/gosimple/slug"
)

//go:embed fallback.json
var fallbackJSON []byte

type fallbackEntry struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Difficulty  string  `json:"difficulty"`
	Points      float64 `json:"points"`
}

// Fallback returns the embedded static catalog. Entries without an explicit
// id get one slugged from the title, so links stay stable across releases.
func Fallback() []Challenge {
	var entries []fallbackEntry
	if err := json.Unmarshal(fallbackJSON, &entries); err != nil {
		return nil
	}

	out := make([]Challenge, 0, len(entries))
	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = slug.Make(e.Title)
		}
		out = append(out, Challenge{
			ID:              id,
			Title:           e.Title,
			Description:     e.Description,
			Difficulty:      e.Difficulty,
			DifficultyClass: ClassifyDifficulty(e.Difficulty),
			Points:          e.Points,
		})
	}
	return out
}
