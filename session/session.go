package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/cares-session/internal/utils"
	"github.com/jrsteele09/cares-session/users"
)

// Session is a snapshot of who is logged in. The zero value is the
// unauthenticated session.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *users.User // nil when unauthenticated, or when the stored user was unreadable
}

// IsAuthenticated is true iff an access token is present.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// ExpiresAt reads the exp claim of a JWT access token. The token is not
// verified; the value is for display only and does not affect IsAuthenticated.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.AccessToken == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s Session) clone() Session {
	s.User = utils.Clone(s.User)
	return s
}
