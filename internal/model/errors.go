package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrCacheMiss  = errors.New("cache miss")
	ErrInvalidTTL = errors.New("cache ttl must be positive")
)

// AuthErrorKind is the user-facing category of an authentication failure.
type AuthErrorKind string

const (
	KindBadCredentials        AuthErrorKind = "bad_credentials"
	KindAccountLocked         AuthErrorKind = "account_locked"
	KindNoPhoneOnFile         AuthErrorKind = "no_phone_on_file"
	KindDirectoryUnavailable  AuthErrorKind = "directory_unavailable"
	KindOtpDispatchFailed     AuthErrorKind = "otp_dispatch_failed"
	KindOtpGatewayUnavailable AuthErrorKind = "otp_gateway_unavailable"
	KindInvalidOtp            AuthErrorKind = "invalid_otp"
	KindTooManyAttempts       AuthErrorKind = "too_many_attempts"
	KindSessionExpired        AuthErrorKind = "session_expired"
	KindThrottleActive        AuthErrorKind = "throttle_active"
	KindLogoutFailed          AuthErrorKind = "logout_failed"
	KindUnauthenticated       AuthErrorKind = "unauthenticated"
	KindInternal              AuthErrorKind = "internal"
)

var authMessages = map[AuthErrorKind]string{
	KindBadCredentials:        "Identifiants incorrects.",
	KindAccountLocked:         "Votre compte est temporairement bloqué.",
	KindNoPhoneOnFile:         "Aucun numéro de téléphone valide trouvé pour votre compte.",
	KindDirectoryUnavailable:  "Échec de l'authentification. Veuillez réessayer.",
	KindOtpDispatchFailed:     "Impossible d'envoyer le code OTP. Vérifiez votre numéro de téléphone.",
	KindOtpGatewayUnavailable: "Erreur lors de la vérification du code OTP.",
	KindTooManyAttempts:       "Trop de tentatives échouées. Veuillez réessayer plus tard.",
	KindSessionExpired:        "Session expirée. Veuillez vous reconnecter.",
	KindLogoutFailed:          "Erreur lors de la déconnexion.",
	KindUnauthenticated:       "Authentification requise.",
	KindInternal:              "Une erreur interne est survenue.",
}

// AuthError is a categorized authentication failure safe to show to clients.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	// Remaining is the number of OTP attempts left, set for KindInvalidOtp.
	Remaining int
	// RetryAfter is the cooldown left in seconds, set for KindThrottleActive.
	RetryAfter int
}

func (e *AuthError) Error() string {
	return e.Message
}

// Is matches another *AuthError of the same kind, so the sentinels below
// work with errors.Is regardless of the attached counts.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// NewAuthError returns an AuthError with the stable message of kind.
func NewAuthError(kind AuthErrorKind) *AuthError {
	msg, ok := authMessages[kind]
	if !ok {
		msg = authMessages[KindInternal]
	}
	return &AuthError{Kind: kind, Message: msg}
}

// NewInvalidOtpError reports a wrong code with the attempts still allowed.
func NewInvalidOtpError(remaining int) *AuthError {
	return &AuthError{
		Kind:      KindInvalidOtp,
		Message:   fmt.Sprintf("Code OTP incorrect. Il vous reste %d tentative(s).", remaining),
		Remaining: remaining,
	}
}

// NewThrottleError reports an active resend cooldown.
func NewThrottleError(secondsRemaining int) *AuthError {
	return &AuthError{
		Kind:       KindThrottleActive,
		Message:    fmt.Sprintf("Veuillez attendre %d secondes avant de redemander un code.", secondsRemaining),
		RetryAfter: secondsRemaining,
	}
}

// Sentinels for errors.Is checks.
var (
	ErrBadCredentials       = &AuthError{Kind: KindBadCredentials}
	ErrAccountLocked        = &AuthError{Kind: KindAccountLocked}
	ErrNoPhoneOnFile        = &AuthError{Kind: KindNoPhoneOnFile}
	ErrDirectoryUnavailable = &AuthError{Kind: KindDirectoryUnavailable}
	ErrOtpDispatch          = &AuthError{Kind: KindOtpDispatchFailed}
	ErrOtpGateway           = &AuthError{Kind: KindOtpGatewayUnavailable}
	ErrInvalidOtp           = &AuthError{Kind: KindInvalidOtp}
	ErrTooManyAttempts      = &AuthError{Kind: KindTooManyAttempts}
	ErrSessionExpired       = &AuthError{Kind: KindSessionExpired}
	ErrThrottleActive       = &AuthError{Kind: KindThrottleActive}
	ErrLogoutFailed         = &AuthError{Kind: KindLogoutFailed}
	ErrUnauthenticated      = &AuthError{Kind: KindUnauthenticated}
)
