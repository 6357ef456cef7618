package repository

import (
	"context"
	"database/sql"
	"time"

	"matchTracker/internal/db"
	"matchTracker/models"
)

// TournamentRepository answers the fixed read queries over tournaments,
// matches, teams and games.
type TournamentRepository struct {
	store *db.Store
}

func NewTournamentRepository(store *db.Store) *TournamentRepository {
	return &TournamentRepository{store: store}
}

// Upcoming returns tournaments scheduled at or after now, earliest first.
func (r *TournamentRepository) Upcoming(ctx context.Context, now string) ([]models.Row, error) {
	return r.rows(ctx, "upcoming tournaments", `
SELECT * FROM tournament
WHERE tournament_schedule >= ?
ORDER BY tournament_schedule ASC, tournament_id ASC`, now)
}

// ByFormat returns tournaments played in the given format (case-insensitive).
func (r *TournamentRepository) ByFormat(ctx context.Context, format string) ([]models.Row, error) {
	return r.rows(ctx, "tournaments by format", `
SELECT * FROM tournament
WHERE LOWER(format) = LOWER(?)
ORDER BY tournament_schedule ASC, tournament_id ASC`, format)
}

// Matches returns the matches of a tournament ordered by date.
func (r *TournamentRepository) Matches(ctx context.Context, tournamentName string) ([]models.Row, error) {
	return r.rows(ctx, "tournament matches", `
SELECT m.* FROM matchinfo m
JOIN tournament t ON t.tournament_id = m.tournament_id
WHERE t.tournament_name = ?
ORDER BY m.match_date ASC, m.matchinfo_id ASC`, tournamentName)
}

// PlacementPoints returns the final standings of a tournament, best placement first.
func (r *TournamentRepository) PlacementPoints(ctx context.Context, tournamentName string) ([]models.PlacementPoints, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []models.PlacementPoints{}
	err := r.store.WithConn(ctx, func(q db.Querier) error {
		rows, err := q.QueryContext(ctx, r.store.Dialect.Rebind(`
SELECT p.team_id, tm.team_name, p.placement, p.points
FROM place p
JOIN team tm ON tm.team_id = p.team_id
JOIN tournament t ON t.tournament_id = p.tournament_id
WHERE t.tournament_name = ?
ORDER BY p.placement ASC, p.team_id ASC`), tournamentName)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var pp models.PlacementPoints
			var placement, points sql.NullInt64
			if err := rows.Scan(&pp.TeamID, &pp.TeamName, &placement, &points); err != nil {
				return err
			}
			pp.Placement = nullInt(placement)
			pp.Points = nullInt(points)
			out = append(out, pp)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, dbError("placement points", err)
	}
	return out, nil
}

// TeamsInMatches lists every team in every match of a tournament with its score.
func (r *TournamentRepository) TeamsInMatches(ctx context.Context, tournamentName string) ([]models.MatchTeam, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []models.MatchTeam{}
	err := r.store.WithConn(ctx, func(q db.Querier) error {
		rows, err := q.QueryContext(ctx, r.store.Dialect.Rebind(`
SELECT m.matchinfo_id, m.match_date, tm.team_id, tm.team_name, mt.score
FROM matchinfo m
JOIN tournament t ON t.tournament_id = m.tournament_id
JOIN matchteam mt ON mt.matchinfo_id = m.matchinfo_id
JOIN team tm ON tm.team_id = mt.team_id
WHERE t.tournament_name = ?
ORDER BY m.match_date ASC, m.matchinfo_id ASC, tm.team_id ASC`), tournamentName)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var mt models.MatchTeam
			var date sql.NullString
			var score sql.NullInt64
			if err := rows.Scan(&mt.MatchInfoID, &date, &mt.TeamID, &mt.TeamName, &score); err != nil {
				return err
			}
			if date.Valid {
				mt.MatchDate = &date.String
			}
			mt.Score = nullInt(score)
			out = append(out, mt)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, dbError("teams in matches", err)
	}
	return out, nil
}

// TeamWins counts won matches for every team with the given name.
// Teams without a win are reported with zero.
func (r *TournamentRepository) TeamWins(ctx context.Context, teamName string) ([]models.TeamWins, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := []models.TeamWins{}
	err := r.store.WithConn(ctx, func(q db.Querier) error {
		rows, err := q.QueryContext(ctx, r.store.Dialect.Rebind(`
SELECT tm.team_id, tm.team_name, COUNT(m.matchinfo_id) AS wins
FROM team tm
LEFT JOIN matchinfo m ON m.winner_team_id = tm.team_id
WHERE tm.team_name = ?
GROUP BY tm.team_id, tm.team_name
ORDER BY tm.team_id ASC`), teamName)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var tw models.TeamWins
			if err := rows.Scan(&tw.TeamID, &tw.TeamName, &tw.Wins); err != nil {
				return err
			}
			out = append(out, tw)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, dbError("team wins", err)
	}
	return out, nil
}

// ByGame collects the tournaments of a game, the teams and organizers taking
// part in them, and the players registered for the game. All four reads share
// one connection.
func (r *TournamentRepository) ByGame(ctx context.Context, gameID any) (*models.GameOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := &models.GameOverview{}
	err := r.store.WithConn(ctx, func(q db.Querier) error {
		var err error
		if out.Tournaments, err = r.queryRows(ctx, q, `
SELECT t.* FROM tournament t
WHERE t.game_id = ?
ORDER BY t.tournament_id`, gameID); err != nil {
			return err
		}
		if out.Teams, err = r.queryRows(ctx, q, `
SELECT DISTINCT tm.* FROM team tm
JOIN tournamentteam tt ON tt.team_id = tm.team_id
JOIN tournament t ON t.tournament_id = tt.tournament_id
WHERE t.game_id = ?
ORDER BY tm.team_id`, gameID); err != nil {
			return err
		}
		if out.Players, err = r.queryRows(ctx, q, `
SELECT p.* FROM player p
JOIN playergame pg ON pg.player_id = p.player_id
WHERE pg.game_id = ?
ORDER BY p.player_id`, gameID); err != nil {
			return err
		}
		out.Organizers, err = r.queryRows(ctx, q, `
SELECT DISTINCT o.* FROM organizer o
JOIN tournament t ON t.organizer_id = o.organizer_id
WHERE t.game_id = ?
ORDER BY o.organizer_id`, gameID)
		return err
	})
	if err != nil {
		return nil, dbError("by game", err)
	}
	return out, nil
}

func (r *TournamentRepository) rows(ctx context.Context, op, query string, args ...any) ([]models.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out []models.Row
	err := r.store.WithConn(ctx, func(q db.Querier) error {
		var err error
		out, err = r.queryRows(ctx, q, query, args...)
		return err
	})
	if err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

func (r *TournamentRepository) queryRows(ctx context.Context, q db.Querier, query string, args ...any) ([]models.Row, error) {
	rows, err := q.QueryContext(ctx, r.store.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
