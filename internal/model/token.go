package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccessTokenTTL is the lifetime of an issued bearer credential.
const AccessTokenTTL = 7 * 24 * time.Hour

// AccessClaims are the verified contents of an access token.
type AccessClaims struct {
	UserID    uuid.UUID
	Cuid      string
	JTI       string
	ExpiresAt time.Time
}

// TokenManager generates and validates signed access tokens.
type TokenManager interface {
	GenerateAccessToken(user User, ttl time.Duration) (token string, jti string, err error)
	ParseAccessToken(token string) (AccessClaims, error)
}

// CredentialIssuer issues and revokes bearer credentials for users.
type CredentialIssuer interface {
	Issue(ctx context.Context, user User, ttl time.Duration) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID
	Cuid   string
	JTI    string
	Token  string
}
