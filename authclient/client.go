package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/cares-session/internal/errors"
	"github.com/jrsteele09/cares-session/users"
)

// TokenPath is the CARES API endpoint that exchanges credentials for tokens.
const TokenPath = "/api/token/"

const maxResponseBytes = 1 << 20

// Credentials is a successful authentication result.
type Credentials struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    users.User `json:"user"`
}

// Authenticator is the remote collaborator the session store logs in against.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (Credentials, error)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var _ Authenticator = (*HTTPAuthenticator)(nil)

// HTTPAuthenticator calls the CARES token endpoint over HTTP.
type HTTPAuthenticator struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPAuthenticatorOption defines a function type to modify the HTTPAuthenticator instance.
type HTTPAuthenticatorOption func(*HTTPAuthenticator)

// WithHTTPClient replaces the default client (primarily for testing)
func WithHTTPClient(c *http.Client) HTTPAuthenticatorOption {
	return func(a *HTTPAuthenticator) {
		a.httpClient = c
	}
}

func NewHTTPAuthenticator(baseURL string, options ...HTTPAuthenticatorOption) *HTTPAuthenticator {
	a := &HTTPAuthenticator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Authenticate exchanges an email and password for tokens and the user snapshot.
func (a *HTTPAuthenticator) Authenticate(ctx context.Context, identifier, secret string) (Credentials, error) {
	body, err := json.Marshal(tokenRequest{Email: identifier, Password: secret})
	if err != nil {
		return Credentials{}, fmt.Errorf("[Authenticate] marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+TokenPath, bytes.NewReader(body))
	if err != nil {
		return Credentials{}, fmt.Errorf("[Authenticate] build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("[Authenticate] %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Credentials{}, fmt.Errorf("[Authenticate] read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return Credentials{}, errors.Wrapf(errors.ErrInvalidCredentials, "[Authenticate] status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Credentials{}, errors.Wrapf(errors.ErrRemote, "[Authenticate] status %d", resp.StatusCode)
	}

	var creds Credentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return Credentials{}, errors.Wrapf(errors.ErrInvalidResponse, "[Authenticate] decode: %v", err)
	}
	if creds.Access == "" {
		return Credentials{}, errors.Wrapf(errors.ErrInvalidResponse, "[Authenticate] missing access token")
	}
	if err := creds.User.Validate(); err != nil {
		return Credentials{}, errors.Wrapf(errors.ErrInvalidResponse, "[Authenticate] %v", err)
	}
	return creds, nil
}
