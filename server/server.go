package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/cares-session/guard"
	"github.com/jrsteele09/cares-session/internal/config"
	"github.com/jrsteele09/cares-session/session"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json"
)

// policies are the guard configurations for each audience.
type policies struct {
	member      guard.Policy
	beneficiary guard.Policy
	admin       guard.Policy
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *session.Store
	policies policies
}

func New(config config.Config, sessions *session.Store) (*Server, error) {
	if config == nil {
		return nil, fmt.Errorf("[Server New] config is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("[Server New] session store is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		sessions: sessions,
		policies: policies{
			member:      guard.Authenticated(config.GetLoginPath()),
			beneficiary: guard.Authenticated(config.GetBeneficiaryLoginPath()),
			admin:       guard.Admin(config.GetLoginPath(), config.GetUnauthorizedPath()),
		},
	}
	for _, p := range []guard.Policy{s.policies.member, s.policies.beneficiary, s.policies.admin} {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("[Server New] %w", err)
		}
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func displayMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", displayMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", displayMethod(method), path, Red+error+ResetColor)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
