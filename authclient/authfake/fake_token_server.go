// Package authfake is an in-process stand-in for the CARES token endpoint.
package authfake

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/cares-session/authclient"
	"github.com/jrsteele09/cares-session/users"
)

type account struct {
	user         users.User
	passwordHash string
}

// Server answers POST /api/token/ for a fixed set of accounts.
type Server struct {
	accounts   map[string]account
	lock       sync.RWMutex
	signingKey []byte
	tokenTTL   time.Duration
	nowTime    func() time.Time

	gate     chan struct{} // when set, responses wait for a release
	received chan struct{}
	calls    atomic.Int32
	status   atomic.Int32 // forced response status, 0 for normal behaviour
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithTokenTTL sets the lifetime of minted access tokens.
func WithTokenTTL(ttl time.Duration) ServerOption {
	return func(s *Server) {
		s.tokenTTL = ttl
	}
}

// WithGate makes every request block until Release is called once for it.
func WithGate() ServerOption {
	return func(s *Server) {
		s.gate = make(chan struct{})
	}
}

func New(options ...ServerOption) *Server {
	s := &Server{
		accounts:   make(map[string]account),
		signingKey: []byte(uuid.NewString()),
		tokenTTL:   time.Hour,
		nowTime:    time.Now,
		received:   make(chan struct{}, 64),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// AddUser registers an account. An empty user ID is assigned a uuid.
func (s *Server) AddUser(user users.User, password string) (users.User, error) {
	hash, err := users.HashPassword(password)
	if err != nil {
		return users.User{}, err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.accounts[user.Email] = account{user: user, passwordHash: hash}
	return user, nil
}

// SigningKey is the HS256 key access tokens are signed with.
func (s *Server) SigningKey() []byte {
	return s.signingKey
}

// Calls is the number of token requests received.
func (s *Server) Calls() int {
	return int(s.calls.Load())
}

// Received is signalled each time a request arrives, before any gate wait.
func (s *Server) Received() <-chan struct{} {
	return s.received
}

// Release lets one gated request proceed.
func (s *Server) Release() {
	s.gate <- struct{}{}
}

// FailWith forces every following response to use status. Zero restores
// normal behaviour.
func (s *Server) FailWith(status int) {
	s.status.Store(int32(status))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != authclient.TokenPath {
		http.NotFound(w, r)
		return
	}
	s.calls.Add(1)
	select {
	case s.received <- struct{}{}:
	default:
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	decodeErr := json.NewDecoder(r.Body).Decode(&req)

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-r.Context().Done():
			return
		}
	}

	if status := int(s.status.Load()); status != 0 {
		writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
		return
	}
	if decodeErr != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed request"})
		return
	}

	s.lock.RLock()
	acct, ok := s.accounts[req.Email]
	s.lock.RUnlock()
	if !ok || !users.CheckPasswordHash(req.Password, acct.passwordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}

	access, err := s.mintAccessToken(acct.user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "token error"})
		return
	}

	writeJSON(w, http.StatusOK, authclient.Credentials{
		Access:  access,
		Refresh: uuid.NewString(),
		User:    acct.user,
	})
}

func (s *Server) mintAccessToken(user users.User) (string, error) {
	now := s.nowTime()
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"token_type": "access",
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
