package repository

import (
	"context"
	"testing"

	"matchTracker/internal/db"
	"matchTracker/internal/testutil"
)

func seedTournaments(t *testing.T, store *db.Store) {
	t.Helper()
	for _, q := range []string{
		`INSERT INTO game (game_id, game_name) VALUES (1, 'Valorant'), (2, 'Dota 2')`,
		`INSERT INTO organizer (organizer_id, organizer_name) VALUES (1, 'Riot'), (2, 'Valve')`,
		`INSERT INTO tournament (tournament_id, tournament_name, game_id, organizer_id, format, tournament_schedule) VALUES
			(1, 'Masters', 1, 1, 'Double Elimination', '2024-03-01 10:00:00'),
			(2, 'Champions', 1, 1, 'Swiss', '2024-08-01 10:00:00'),
			(3, 'Old Cup', 1, 1, 'Swiss', '2023-01-01 10:00:00'),
			(4, 'The International', 2, 2, 'Double Elimination', '2024-09-01 10:00:00')`,
		`INSERT INTO team (team_id, team_name, region) VALUES (1, 'Sentinels', 'NA'), (2, 'Fnatic', 'EU'), (3, 'Spirit', 'CIS')`,
		`INSERT INTO tournamentteam (tournament_id, team_id) VALUES (1, 1), (1, 2), (2, 1), (4, 3)`,
		`INSERT INTO player (player_id, player_name, team_id) VALUES (1, 'TenZ', 1), (2, 'Boaster', 2), (3, 'Yatoro', 3)`,
		`INSERT INTO playergame (player_id, game_id) VALUES (1, 1), (2, 1), (3, 2)`,
		`INSERT INTO matchinfo (matchinfo_id, tournament_id, match_date, round, winner_team_id) VALUES
			(2, 1, '2024-03-03 12:00:00', 'Final', 1),
			(1, 1, '2024-03-02 12:00:00', 'Semi', 2),
			(3, 2, '2024-08-02 12:00:00', 'Group', 1)`,
		`INSERT INTO matchteam (matchinfo_id, team_id, score) VALUES (1, 1, 1), (1, 2, 2), (2, 1, 3), (2, 2, NULL)`,
		`INSERT INTO place (tournament_id, team_id, placement, points) VALUES (1, 2, 2, 300), (1, 1, 1, 500)`,
	} {
		testutil.Exec(t, store, q)
	}
}

func TestTournamentRepository_Upcoming(t *testing.T) {
	store := testutil.OpenInMemoryDB(t, "tournrepo_upcoming")
	seedTournaments(t, store)
	repo := NewTournamentRepository(store)

	rows, err := repo.Upcoming(context.Background(), "2024-01-01 00:00:00")
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	var names []any
	for _, r := range rows {
		if r["tournament_schedule"].(string) < "2024-01-01 00:00:00" {
			t.Fatalf("past tournament returned: %#v", r)
		}
		names = append(names, r["tournament_name"])
	}
	want := []any{"Masters", "Champions", "The International"}
	if len(names) != len(want) {
		t.Fatalf("got %v want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v want %v", names, want)
		}
	}
}

func TestTournamentRepository_ByFormat(t *testing.T) {
	store := testutil.OpenInMemoryDB(t, "tournrepo_format")
	seedTournaments(t, store)
	rows, err := NewTournamentRepository(store).ByFormat(context.Background(), "swiss")
	if err != nil || len(rows) != 2 {
		t.Fatalf("by format: %v %v", err, rows)
	}
	if rows[0]["tournament_name"] != "Old Cup" {
		t.Fatalf("expected schedule order, got %v", rows)
	}
}

func TestTournamentRepository_MatchesAndTeams(t *testing.T) {
	store := testutil.OpenInMemoryDB(t, "tournrepo_matches")
	seedTournaments(t, store)
	repo := NewTournamentRepository(store)
	ctx := context.Background()

	matches, err := repo.Matches(ctx, "Masters")
	if err != nil || len(matches) != 2 {
		t.Fatalf("matches: %v %v", err, matches)
	}
	if matches[0]["matchinfo_id"] != int64(1) || matches[1]["matchinfo_id"] != int64(2) {
		t.Fatalf("matches not ordered by date: %v", matches)
	}

	teams, err := repo.TeamsInMatches(ctx, "Masters")
	if err != nil || len(teams) != 4 {
		t.Fatalf("teams in matches: %v %v", err, teams)
	}
	if teams[0].MatchInfoID != 1 || teams[0].TeamName != "Sentinels" || *teams[0].Score != 1 {
		t.Fatalf("unexpected first row: %+v", teams[0])
	}
	if teams[3].Score != nil {
		t.Fatalf("null score should stay nil: %+v", teams[3])
	}

	none, err := repo.Matches(ctx, "Unknown")
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown tournament: %v %v", err, none)
	}
}

func TestTournamentRepository_PlacementPoints(t *testing.T) {
	store := testutil.OpenInMemoryDB(t, "tournrepo_place")
	seedTournaments(t, store)
	pp, err := NewTournamentRepository(store).PlacementPoints(context.Background(), "Masters")
	if err != nil || len(pp) != 2 {
		t.Fatalf("placement points: %v %v", err, pp)
	}
	if pp[0].TeamName != "Sentinels" || *pp[0].Placement != 1 || *pp[0].Points != 500 {
		t.Fatalf("unexpected standings: %+v", pp[0])
	}
}

func TestTournamentRepository_TeamWins(t *testing.T) {
	store := testutil.OpenInMemoryDB(t, "tournrepo_wins")
	seedTournaments(t, store)
	repo := NewTournamentRepository(store)
	ctx := context.Background()

	wins, err := repo.TeamWins(ctx, "Sentinels")
	if err != nil || len(wins) != 1 || wins[0].Wins != 2 {
		t.Fatalf("team wins: %v %+v", err, wins)
	}
	wins, err = repo.TeamWins(ctx, "Spirit")
	if err != nil || len(wins) != 1 || wins[0].Wins != 0 {
		t.Fatalf("team without wins: %v %+v", err, wins)
	}
	wins, err = repo.TeamWins(ctx, "Nobody")
	if err != nil || len(wins) != 0 {
		t.Fatalf("unknown team: %v %+v", err, wins)
	}
}

func TestTournamentRepository_ByGame(t *testing.T) {
	store := testutil.OpenInMemoryDB(t, "tournrepo_game")
	seedTournaments(t, store)
	out, err := NewTournamentRepository(store).ByGame(context.Background(), int64(1))
	if err != nil {
		t.Fatalf("by game: %v", err)
	}
	if len(out.Tournaments) != 3 || len(out.Teams) != 2 || len(out.Players) != 2 || len(out.Organizers) != 1 {
		t.Fatalf("unexpected overview: t=%d teams=%d players=%d orgs=%d",
			len(out.Tournaments), len(out.Teams), len(out.Players), len(out.Organizers))
	}

	empty, err := NewTournamentRepository(store).ByGame(context.Background(), int64(99))
	if err != nil || len(empty.Tournaments) != 0 || empty.Teams == nil {
		t.Fatalf("unknown game should give empty lists: %v %+v", err, empty)
	}
}
