package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AccessTokenStore interface {
	Create(ctx context.Context, token AccessToken) error
	GetByJTI(ctx context.Context, jti string) (AccessToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
}

// AccessToken is the persisted record of an issued bearer credential.
// Only a hash of the token is stored.
type AccessToken struct {
	ID        uuid.UUID
	JTI       string
	UserID    uuid.UUID
	TokenHash []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
