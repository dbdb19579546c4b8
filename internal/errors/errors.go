package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session portal
var (
	// Login errors
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperationInFlight  = errors.New("login already in progress")

	// Remote collaborator errors
	ErrRemote          = errors.New("remote authentication error")
	ErrInvalidResponse = errors.New("invalid authentication response")

	// Store errors
	ErrStoreClosed        = errors.New("session store closed")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrStorageUnavailable = errors.New("session storage unavailable")

	// Boundary errors
	ErrUnknownRole   = errors.New("unknown role")
	ErrUnknownStatus = errors.New("unknown status")
	ErrInvalidUser   = errors.New("invalid user")
)

// New returns an error that formats as the given text
func New(text string) error {
	return errors.New(text)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
