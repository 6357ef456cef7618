package models

// PlacementPoints is one team's final standing in a tournament.
type PlacementPoints struct {
	TeamID    int64  `json:"team_id"`
	TeamName  string `json:"team_name"`
	Placement *int64 `json:"placement"`
	Points    *int64 `json:"points"`
}

// MatchTeam is one team's participation in a match of a tournament.
type MatchTeam struct {
	MatchInfoID int64   `json:"matchinfo_id"`
	MatchDate   *string `json:"match_date"`
	TeamID      int64   `json:"team_id"`
	TeamName    string  `json:"team_name"`
	Score       *int64  `json:"score"`
}

// TeamWins counts the matches a team has won.
type TeamWins struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Wins     int64  `json:"wins"`
}
