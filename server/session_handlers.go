package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/cares-session/guard"
	"github.com/jrsteele09/cares-session/internal/errors"
	"github.com/jrsteele09/cares-session/users"
	"github.com/rs/zerolog/log"
)

const maxLoginBodyBytes = 16 << 10

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login. Next is where the
// front end should go first.
type LoginResponse struct {
	User *users.User `json:"user"`
	Next string      `json:"next"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	IsAuthenticated bool        `json:"is_authenticated"`
	State           string      `json:"state"`
	User            *users.User `json:"user"`
	ExpiresAt       *time.Time  `json:"expires_at,omitempty"`
}

// LoginHandler processes a login submission (POST /api/session/login)
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, err := s.sessions.Login(r.Context(), req.Email, req.Password)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, LoginResponse{User: user, Next: landingRoute(user)})
		case errors.Is(err, errors.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, errors.ErrOperationInFlight):
			writeError(w, http.StatusConflict, "A login is already in progress")
		case errors.Is(err, errors.ErrStoreClosed):
			writeError(w, http.StatusServiceUnavailable, "Service is shutting down")
		case errors.Is(err, errors.ErrStorageUnavailable):
			logError(r.Method, r.URL.Path, err.Error())
			writeError(w, http.StatusInternalServerError, "Unable to save session")
		case errors.Is(err, context.Canceled):
			// Client went away; the login is completed in the background.
		default:
			log.Info().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("Login failed")
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		}
	}
}

// landingRoute picks the first view after login.
func landingRoute(user *users.User) string {
	switch {
	case user.IsFirstLogin:
		return RouteOnboarding
	case user.IsSuperuser:
		return RouteAdminDashboard
	case user.IsPrivate:
		return RoutePartnerActivities
	}
	return RouteDashboard
}

// LogoutHandler ends the session (POST /api/session/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Logout()
		w.WriteHeader(http.StatusNoContent)
	}
}

// SessionHandler reports the current session (GET /api/session)
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Current()
		resp := SessionResponse{
			IsAuthenticated: sess.IsAuthenticated(),
			State:           guard.StateOf(sess).String(),
			User:            sess.User,
		}
		if exp, ok := sess.ExpiresAt(); ok {
			resp.ExpiresAt = &exp
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
