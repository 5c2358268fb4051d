package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewInvalidOtpError(2))

	assert.True(t, errors.Is(err, ErrInvalidOtp))
	assert.False(t, errors.Is(err, ErrTooManyAttempts))

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.Equal(t, 2, authErr.Remaining)
	assert.Equal(t, "Code OTP incorrect. Il vous reste 2 tentative(s).", authErr.Error())
}

func TestNewAuthError_Messages(t *testing.T) {
	assert.Equal(t, "Session expirée. Veuillez vous reconnecter.", NewAuthError(KindSessionExpired).Error())
	assert.Equal(t, "Une erreur interne est survenue.", NewAuthError(AuthErrorKind("unknown")).Error())
}

func TestNewThrottleError(t *testing.T) {
	err := NewThrottleError(42)

	assert.ErrorIs(t, err, ErrThrottleActive)
	assert.Equal(t, 42, err.RetryAfter)
	assert.Contains(t, err.Error(), "42 secondes")
}

func TestDirectoryErrorKindOf(t *testing.T) {
	locked := fmt.Errorf("call: %w", &DirectoryError{Kind: DirectoryAccountLocked, Code: "775"})

	assert.Equal(t, DirectoryAccountLocked, DirectoryErrorKindOf(locked))
	assert.Equal(t, DirectoryTransport, DirectoryErrorKindOf(errors.New("dial tcp: refused")))
	assert.Contains(t, locked.Error(), "code 775")
}

func TestNewUserView_OptionalFields(t *testing.T) {
	v := NewUserView(User{Cuid: "cuid1", Name: "Jean", Email: "jean@example.cd"})

	if assert.NotNil(t, v.Email) {
		assert.Equal(t, "jean@example.cd", *v.Email)
	}
	assert.Nil(t, v.Phone)
	assert.Nil(t, v.Department)
}
