package httpapi

import (
	"net/http"

	"matchTracker/internal/validate"
)

func (s *Server) upcomingTournaments(w http.ResponseWriter, r *http.Request) {
	var req validate.UpcomingRequest
	if !decodeValid(w, r, &req) {
		return
	}
	now, err := validate.Timestamp("current_time", req.CurrentTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := s.deps.Tournaments.Upcoming(r.Context(), now)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getFormat(w http.ResponseWriter, r *http.Request) {
	var req validate.FormatRequest
	if !decodeValid(w, r, &req) {
		return
	}
	rows, err := s.deps.Tournaments.ByFormat(r.Context(), req.Format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getPlacementPoints(w http.ResponseWriter, r *http.Request) {
	var req validate.TournamentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	out, err := s.deps.Tournaments.PlacementPoints(r.Context(), req.TournamentName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMatchesInTournament(w http.ResponseWriter, r *http.Request) {
	var req validate.TournamentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	rows, err := s.deps.Tournaments.Matches(r.Context(), req.TournamentName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) getTeamsInMatch(w http.ResponseWriter, r *http.Request) {
	var req validate.TournamentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	out, err := s.deps.Tournaments.TeamsInMatches(r.Context(), req.TournamentName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTeamWins(w http.ResponseWriter, r *http.Request) {
	var req validate.TeamRequest
	if !decodeValid(w, r, &req) {
		return
	}
	out, err := s.deps.Tournaments.TeamWins(r.Context(), req.TeamName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) byGame(w http.ResponseWriter, r *http.Request) {
	var req validate.GameRequest
	if !decodeValid(w, r, &req) {
		return
	}
	gameID, err := validate.ID("game_id", req.GameID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := s.deps.Tournaments.ByGame(r.Context(), gameID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
