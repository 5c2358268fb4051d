package model

import "errors"

var (
	ErrTokenRevoked  = errors.New("access token revoked")
	ErrTokenExpired  = errors.New("access token expired")
	ErrTokenMismatch = errors.New("access token mismatch")
)
