package validate

// CredentialsRequest is the body of /register and /login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// TableRequest is the body of /getTable.
type TableRequest struct {
	TableName string `json:"table_name" validate:"required"`
}

// EntryRequest is the body of /getEntry and /deleteEntry. ID is checked by
// [ID]: a string or number; null, blank strings, booleans, arrays and objects
// are rejected.
type EntryRequest struct {
	TableName string `json:"table_name" validate:"required"`
	ID        any    `json:"id"`
}

// InsertRequest is the body of /insertEntry.
type InsertRequest struct {
	TableName string         `json:"table_name" validate:"required"`
	Entry     map[string]any `json:"entry" validate:"required,min=1"`
}

// UpdateRequest is the body of /updateEntry.
type UpdateRequest struct {
	TableName   string         `json:"table_name" validate:"required"`
	ID          any            `json:"id"`
	UpdateColms map[string]any `json:"update_colms" validate:"required,min=1"`
}

// UpcomingRequest is the body of /upcomingTournaments.
type UpcomingRequest struct {
	CurrentTime string `json:"current_time" validate:"required"`
}

// FormatRequest is the body of /getFormat.
type FormatRequest struct {
	Format string `json:"format" validate:"notblank"`
}

// TournamentRequest is the body of the per-tournament queries.
type TournamentRequest struct {
	TournamentName string `json:"tournament_name" validate:"notblank"`
}

// TeamRequest is the body of /getTeamWins.
type TeamRequest struct {
	TeamName string `json:"team_name" validate:"notblank"`
}

// GameRequest is the body of /byGame.
type GameRequest struct {
	GameID any `json:"game_id"`
}
