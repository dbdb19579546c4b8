package errors_test

import (
	"fmt"
	"testing"

	"github.com/jrsteele09/cares-session/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, errors.Wrapf(nil, "login %s", "x"))
	})

	t.Run("keeps chain", func(t *testing.T) {
		err := errors.Wrapf(errors.ErrInvalidCredentials, "authenticate %s", "a@b.com")
		require.EqualError(t, err, "authenticate a@b.com: invalid credentials")
		require.True(t, errors.Is(err, errors.ErrInvalidCredentials))
	})

	t.Run("double wrap", func(t *testing.T) {
		inner := fmt.Errorf("dial: %w", errors.ErrRemote)
		err := errors.Wrapf(inner, "login")
		require.True(t, errors.Is(err, errors.ErrRemote))
		require.False(t, errors.Is(err, errors.ErrInvalidCredentials))
	})
}
