package model

import (
	"time"
)

const (
	// PendingSessionTTL bounds the gap between the directory check and OTP verification.
	PendingSessionTTL = 10 * time.Minute
	// OtpFailureWindow is the lifetime of the failed-attempt counter, counted from the first failure.
	OtpFailureWindow = 5 * time.Minute
	// MaxOtpAttempts is the number of failed verifications after which a cuid is locked out.
	MaxOtpAttempts = 3
	// OtpResendCooldown is the minimum delay between two OTP sends.
	OtpResendCooldown = 60 * time.Second
	// OtpResendKeyTTL bounds the lifetime of the resend throttle key.
	OtpResendKeyTTL = 2 * time.Minute
)

// Cache key namespaces, one per kind of pending-login state.
const (
	PendingKeyPrefix    = "pending:"
	OtpFailureKeyPrefix = "otpFailures:"
	OtpResendKeyPrefix  = "otpResend:"
)

const (
	StatusOtpSent       = "otp_sent"
	StatusAuthenticated = "authenticated"
	TokenTypeBearer     = "Bearer"

	defaultProfileStatus = "active"
)

// DirectoryProfile is the identity fetched from the directory service.
// Empty optional fields mean the directory has no value.
type DirectoryProfile struct {
	ExternalID  string `json:"cuid"`
	DisplayName string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Department  string `json:"department,omitempty"`
	Status      string `json:"status"`
}

// StatusOrDefault returns the profile status, "active" when unset.
func (p DirectoryProfile) StatusOrDefault() string {
	if p.Status == "" {
		return defaultProfileStatus
	}
	return p.Status
}

// PendingSession bridges a successful directory check to OTP verification.
type PendingSession struct {
	Profile   DirectoryProfile `json:"profile"`
	CreatedAt time.Time        `json:"created_at"`
}

// LoginResult is returned once the first factor passed and an OTP was sent.
type LoginResult struct {
	Status      string `json:"status"`
	Cuid        string `json:"cuid"`
	Message     string `json:"message"`
	HasPhone    bool   `json:"has_phone"`
	HasEmail    bool   `json:"has_email"`
	PhoneMasked string `json:"phone_masked"`
}

// AuthResult is returned once the second factor passed.
type AuthResult struct {
	Status    string   `json:"status"`
	User      UserView `json:"user"`
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int64    `json:"expires_in"`
	Message   string   `json:"message"`
}
