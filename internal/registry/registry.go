// Package registry holds the static allow-list of tables reachable through the
// generic entry endpoints. It is the only source of SQL identifiers for those
// endpoints; identifiers are never taken from request text.
package registry

import (
	"sort"
	"strings"

	"matchTracker/internal/apperr"
)

// TableDescriptor describes one allow-listed table.
// Columns always includes PrimaryKey.
type TableDescriptor struct {
	Name       string   `json:"name"`
	PrimaryKey string   `json:"primary_key"`
	Columns    []string `json:"columns"`
}

// Column returns the descriptor's own spelling of name (case-insensitive match).
func (d TableDescriptor) Column(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range d.Columns {
		if c == name {
			return c, true
		}
	}
	return "", false
}

// HasColumn reports whether name is a column of the table.
func (d TableDescriptor) HasColumn(name string) bool {
	_, ok := d.Column(name)
	return ok
}

func table(name, pk string, cols ...string) TableDescriptor {
	return TableDescriptor{Name: name, PrimaryKey: pk, Columns: append([]string{pk}, cols...)}
}

// tables is built once at package init and never mutated.
var tables = func() map[string]TableDescriptor {
	list := []TableDescriptor{
		table("game", "game_id", "game_name", "genre", "publisher", "release_date"),
		table("organizer", "organizer_id", "organizer_name", "country", "website"),
		table("venue", "venue_id", "venue_name", "city", "country", "capacity"),
		table("tournament", "tournament_id", "tournament_name", "game_id", "organizer_id", "venue_id", "format", "tournament_schedule", "end_date"),
		table("team", "team_id", "team_name", "region", "founded_year"),
		table("player", "player_id", "player_name", "gamer_tag", "nationality", "team_id"),
		table("manager", "manager_id", "manager_name", "team_id"),
		table("coach", "coach_id", "coach_name", "team_id"),
		table("matchinfo", "matchinfo_id", "tournament_id", "match_date", "round", "winner_team_id"),
		table("place", "place_id", "tournament_id", "team_id", "placement", "points"),
		table("prizepool", "prizepool_id", "tournament_id", "total_amount", "currency"),
		table("sponsor", "sponsor_id", "sponsor_name", "industry", "tournament_id"),
		table("commentator", "commentator_id", "commentator_name", "language", "tournament_id"),
	}
	m := make(map[string]TableDescriptor, len(list))
	for _, d := range list {
		m[d.Name] = d
	}
	return m
}()

// Resolve looks up a table by name, ignoring case and surrounding whitespace.
func Resolve(name string) (TableDescriptor, error) {
	d, ok := tables[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return TableDescriptor{}, apperr.NotAllowed("Invalid table name")
	}
	return d, nil
}

// Names returns the allow-listed table names in sorted order.
func Names() []string {
	out := make([]string, 0, len(tables))
	for n := range tables {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// All returns every descriptor, sorted by name. Column slices are copies.
func All() []TableDescriptor {
	names := Names()
	out := make([]TableDescriptor, 0, len(names))
	for _, n := range names {
		d := tables[n]
		d.Columns = append([]string(nil), d.Columns...)
		out = append(out, d)
	}
	return out
}
