package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

const loginTimeoutVar = "LOGIN_TIMEOUT"

type SessionConfig interface {
	GetLoginTimeout() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetLoginTimeout bounds a single call to the authentication endpoint.
func (Session) GetLoginTimeout() time.Duration {
	value := GetEnv(loginTimeoutVar, "")
	if value == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn().Str("value", value).Msg("Ignoring invalid " + loginTimeoutVar)
		return 30 * time.Second
	}
	return d
}
