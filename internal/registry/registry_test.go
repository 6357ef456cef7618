package registry

import (
	"strings"
	"testing"

	"matchTracker/internal/apperr"
)

func TestResolve_CaseInsensitive(t *testing.T) {
	for _, in := range []string{"player", "PLAYER", " Player ", "MatchInfo"} {
		d, err := Resolve(in)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", in, err)
		}
		if d.Name != strings.ToLower(strings.TrimSpace(in)) {
			t.Fatalf("Resolve(%q) name = %q", in, d.Name)
		}
	}
}

func TestResolve_Unknown(t *testing.T) {
	for _, in := range []string{"", "useraccount", "player; DROP TABLE player", "sqlite_master", "tournamentteam"} {
		_, err := Resolve(in)
		if apperr.KindOf(err) != apperr.KindNotAllowed {
			t.Fatalf("Resolve(%q) err = %v, want NotAllowed", in, err)
		}
	}
}

func TestDescriptorsAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range All() {
		if d.Name != strings.ToLower(d.Name) {
			t.Fatalf("table %q not lower-case", d.Name)
		}
		if seen[d.Name] {
			t.Fatalf("duplicate table %q", d.Name)
		}
		seen[d.Name] = true
		if d.PrimaryKey != d.Name+"_id" {
			t.Fatalf("table %q primary key %q", d.Name, d.PrimaryKey)
		}
		if !d.HasColumn(d.PrimaryKey) {
			t.Fatalf("table %q columns missing primary key", d.Name)
		}
	}
	if len(seen) != 13 {
		t.Fatalf("expected 13 tables, got %d", len(seen))
	}
}

func TestAllReturnsCopies(t *testing.T) {
	all := All()
	all[0].Columns[0] = "tampered"
	again := All()
	if again[0].Columns[0] == "tampered" {
		t.Fatalf("registry mutated through All()")
	}
}

func TestColumnLookup(t *testing.T) {
	d, _ := Resolve("player")
	c, ok := d.Column(" Player_Name ")
	if !ok || c != "player_name" {
		t.Fatalf("Column = %q %v", c, ok)
	}
	if d.HasColumn("player_name = 1; --") {
		t.Fatalf("unexpected column match")
	}
}
