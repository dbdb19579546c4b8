// Package guard decides whether a view may be shown for the current session.
// Decisions are pure functions of the session and never fail: missing
// permission always resolves to a redirect.
package guard

import (
	"github.com/jrsteele09/cares-session/internal/errors"
	"github.com/jrsteele09/cares-session/session"
	"github.com/jrsteele09/cares-session/users"
)

// Policy configures one guard. Audiences with their own entry point (such as
// beneficiaries) use the same policy with a different LoginPath.
type Policy struct {
	Role             users.Role // RoleMember for authenticated-only, RoleSuperuser for admin-only
	LoginPath        string
	UnauthorizedPath string
}

// Validate rejects a policy that could not produce a usable redirect.
func (p Policy) Validate() error {
	if _, err := users.ParseRole(string(p.Role)); err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "[Policy] %v", err)
	}
	if p.LoginPath == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "[Policy] login path is required")
	}
	return nil
}

// unauthorizedTarget falls back to the login entry point, which is never
// guarded, when no unauthorized view is configured.
func (p Policy) unauthorizedTarget() string {
	if p.UnauthorizedPath == "" {
		return p.LoginPath
	}
	return p.UnauthorizedPath
}

// Authenticated allows any logged in user.
func Authenticated(loginPath string) Policy {
	return Policy{Role: users.RoleMember, LoginPath: loginPath}
}

// Admin allows superusers only.
func Admin(loginPath, unauthorizedPath string) Policy {
	return Policy{Role: users.RoleSuperuser, LoginPath: loginPath, UnauthorizedPath: unauthorizedPath}
}

type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	}
	return "unknown"
}

type Decision struct {
	Outcome Outcome
	Target  string // redirect target, empty for Allow

	integrityViolation bool
}

// IntegrityViolation reports that the session was authenticated but had no
// user, which should never happen. Callers log it.
func (d Decision) IntegrityViolation() bool {
	return d.integrityViolation
}

// Evaluate applies the policy. Authentication is checked before the role,
// since the role check needs a user. A role outside the enumeration is
// never satisfied.
func Evaluate(sess session.Session, p Policy) Decision {
	if !sess.IsAuthenticated() {
		return Decision{Outcome: RedirectLogin, Target: p.LoginPath}
	}
	missingUser := sess.User == nil
	switch p.Role {
	case users.RoleMember:
		return Decision{Outcome: Allow, integrityViolation: missingUser}
	case users.RoleSuperuser:
		if sess.User.HasRole(p.Role) {
			return Decision{Outcome: Allow}
		}
	}
	return Decision{Outcome: RedirectUnauthorized, Target: p.unauthorizedTarget(), integrityViolation: missingUser}
}

// State is where a session sits relative to the admin policy.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedUnauthorized
	AuthenticatedAuthorized
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedUnauthorized:
		return "authenticated_unauthorized"
	case AuthenticatedAuthorized:
		return "authenticated_authorized"
	}
	return "unknown"
}

func StateOf(sess session.Session) State {
	switch Evaluate(sess, Admin("", "")).Outcome {
	case RedirectLogin:
		return Unauthenticated
	case RedirectUnauthorized:
		return AuthenticatedUnauthorized
	}
	return AuthenticatedAuthorized
}
