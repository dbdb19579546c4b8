package users

import (
	"encoding/json"
	"strings"

	"github.com/jrsteele09/cares-session/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of roles the portal distinguishes. It is derived
// from the is_superuser flag the CARES API returns.
type Role string

const (
	RoleMember    Role = "member"    // Any authenticated user
	RoleSuperuser Role = "superuser" // Admin review screens
)

// ParseRole normalises a role name, rejecting anything outside the enumeration.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleMember:
		return RoleMember, nil
	case RoleSuperuser:
		return RoleSuperuser, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownRole, "role %q", value)
}

func (r Role) String() string {
	return string(r)
}

// User is the snapshot of the logged in user as returned by the CARES API.
// Profile fields are for display only.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	IsSuperuser  bool   `json:"is_superuser"`
	IsPrivate    bool   `json:"is_private"`    // Partner (private RHU) account
	IsFirstLogin bool   `json:"is_first_login"` // Must finish onboarding before anything else
}

// Role returns the user's role.
func (u *User) Role() Role {
	if u.IsSuperuser {
		return RoleSuperuser
	}
	return RoleMember
}

// HasRole reports whether the user satisfies the required role. Superusers
// satisfy every role.
func (u *User) HasRole(required Role) bool {
	if u == nil {
		return false
	}
	return required == RoleMember || u.Role() == required
}

// Validate rejects snapshots that are unusable as a session identity.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.Wrapf(errors.ErrInvalidUser, "missing id")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.Wrapf(errors.ErrInvalidUser, "missing email")
	}
	return nil
}

func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UnmarshalJSON accepts the id as either a JSON string or number, as the
// CARES API uses integer primary keys.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = ""
	if len(aux.ID) == 0 || string(aux.ID) == "null" {
		return nil
	}
	var id string
	if err := json.Unmarshal(aux.ID, &id); err == nil {
		u.ID = id
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(aux.ID, &n); err != nil {
		return errors.Wrapf(errors.ErrInvalidUser, "id %s", string(aux.ID))
	}
	u.ID = n.String()
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
