package httpapi

import (
	"net/http"
	"strconv"

	"matchTracker/internal/auth"
	"matchTracker/internal/logging"
	"matchTracker/internal/validate"
	"matchTracker/models"
)

type registerResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	UserID   int64       `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type loginUser struct {
	UserID   int64       `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	User    loginUser `json:"user"`
	Token   string    `json:"token"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req validate.CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, r, err)
		return
	}
	acct, err := s.deps.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("user_id", acct.ID).Str("username", acct.Username).Msg("account registered")
	writeJSON(w, http.StatusCreated, registerResponse{
		Success:  true,
		Message:  "User registered successfully",
		UserID:   acct.ID,
		Username: acct.Username,
		Role:     acct.Role,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req validate.CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := s.deps.Auth.Login(r.Context(), req.Username, req.Password)
	s.metrics.observeLogin(err == nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := s.deps.Tokens.IssueBearer(sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.deps.Tokens.SetCookie(w, sess, s.opts.CookieSecure); err != nil {
		writeError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("user_id", sess.UserID).Str("role", string(sess.Role)).Msg("login")
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		User:    loginUser{UserID: sess.UserID, Username: sess.Username, Role: sess.Role},
		Token:   token,
	})
}

// logout ends the caller's session; with ?all=true every session of the
// caller's account is ended. Logging out without a session succeeds.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := auth.FromContext(r.Context()); ok {
		all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
		var err error
		if all {
			_, err = s.deps.Auth.LogoutAll(r.Context(), sess.UserID)
		} else {
			err = s.deps.Auth.Logout(r.Context(), sess.ID)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	s.deps.Tokens.ClearCookie(w, s.opts.CookieSecure)
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}
