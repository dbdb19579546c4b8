package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/cares-session/guard"
	"github.com/jrsteele09/cares-session/session"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the session the guard evaluated
	ContextKeySession ContextKey = "session"
)

// SessionFromContext returns the session a guard admitted the request with.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(ContextKeySession).(session.Session)
	return sess, ok
}

// RequireSession guards a view with the given policy. Denied requests are
// redirected silently to the policy's target.
func (s *Server) RequireSession(policy guard.Policy) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess := s.sessions.Current()
			decision := guard.Evaluate(sess, policy)

			if decision.IntegrityViolation() {
				log.Warn().
					Str("request_id", RequestIDFromContext(r.Context())).
					Str("path", r.URL.Path).
					Msg("Authenticated session has no user")
			}

			if decision.Outcome != guard.Allow {
				if decision.Target == "" {
					http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
					return
				}
				http.Redirect(w, r, decision.Target, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			next(w, r.WithContext(ctx))
		}
	}
}
