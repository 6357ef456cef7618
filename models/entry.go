package models

// Row is a single result row keyed by column name.
// Values are scalars (string, int64, float64, bool) or nil for SQL NULL.
type Row map[string]any

// GameOverview aggregates everything linked to one game.
type GameOverview struct {
	Tournaments []Row `json:"tournaments"`
	Teams       []Row `json:"teams"`
	Players     []Row `json:"players"`
	Organizers  []Row `json:"organizers"`
}
