package model

import (
	"context"
	"errors"
	"fmt"
)

// DirectoryClient verifies credentials against the directory service.
type DirectoryClient interface {
	Authenticate(ctx context.Context, cuid, password string) (DirectoryProfile, error)
}

// OtpGateway sends and checks one-time codes for a phone number.
type OtpGateway interface {
	GenerateOtp(ctx context.Context, phone string) error
	// VerifyOtp reports false for an incorrect code; errors mean the
	// gateway could not be reached.
	VerifyOtp(ctx context.Context, phone, code string) (bool, error)
}

var (
	ErrOtpDispatchFailed     = errors.New("otp dispatch failed")
	ErrOtpGatewayUnavailable = errors.New("otp gateway unavailable")
)

// DirectoryErrorKind classifies directory failures.
type DirectoryErrorKind int

const (
	DirectoryTransport DirectoryErrorKind = iota
	DirectoryBadCredentials
	DirectoryAccountLocked
	DirectoryNoPhoneOnFile
)

func (k DirectoryErrorKind) String() string {
	switch k {
	case DirectoryBadCredentials:
		return "bad_credentials"
	case DirectoryAccountLocked:
		return "account_locked"
	case DirectoryNoPhoneOnFile:
		return "no_phone_on_file"
	default:
		return "transport"
	}
}

// DirectoryError is returned by DirectoryClient implementations.
type DirectoryError struct {
	Kind DirectoryErrorKind
	// Code is the provider error code, if any. It is logged, never shown to users.
	Code string
	Err  error
}

func (e *DirectoryError) Error() string {
	msg := "directory: " + e.Kind.String()
	if e.Code != "" {
		msg += fmt.Sprintf(" (code %s)", e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// DirectoryErrorKindOf returns the kind of a directory error; any error that
// is not a *DirectoryError counts as a transport failure.
func DirectoryErrorKindOf(err error) DirectoryErrorKind {
	var de *DirectoryError
	if errors.As(err, &de) {
		return de.Kind
	}
	return DirectoryTransport
}
