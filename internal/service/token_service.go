package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
)

// TokenService issues, authenticates and revokes bearer credentials.
// It composes the TokenManager and AccessTokenStore: the signature proves
// the token was issued here, the stored record allows revocation.
type TokenService struct {
	manager model.TokenManager
	store   model.AccessTokenStore
	logger  *logger.Logger
	now     func() time.Time
}

func NewTokenService(manager model.TokenManager, store model.AccessTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger, now: time.Now}
}

func (s *TokenService) Issue(ctx context.Context, user model.User, ttl time.Duration) (string, error) {
	token, jti, err := s.manager.GenerateAccessToken(user, ttl)
	if err != nil {
		return "", fmt.Errorf("issue access: %w", err)
	}

	now := s.now()
	record := model.AccessToken{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    user.ID,
		TokenHash: hashToken(token),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, record); err != nil {
		return "", fmt.Errorf("persist access: %w", err)
	}

	return token, nil
}

// Authenticate resolves a presented bearer token to its principal.
func (s *TokenService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	claims, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return model.Principal{}, err
	}

	record, err := s.store.GetByJTI(ctx, claims.JTI)
	if err != nil {
		return model.Principal{}, err
	}

	if err := validateRecord(record, hashToken(token), s.now()); err != nil {
		return model.Principal{}, err
	}

	return model.Principal{
		UserID: claims.UserID,
		Cuid:   claims.Cuid,
		JTI:    claims.JTI,
		Token:  token,
	}, nil
}

// Revoke invalidates the presented token. Revoking it twice is not an error.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.manager.ParseAccessToken(token)
	if errors.Is(err, model.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.store.RevokeByJTI(ctx, claims.JTI); err != nil {
		return fmt.Errorf("revoke access: %w", err)
	}

	s.logger.Debug("Token service: access token revoked",
		"user_id", claims.UserID,
		"jti", claims.JTI)

	return nil
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.AccessToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if !equalBytes(rt.TokenHash, presentedHash) {
		return model.ErrTokenMismatch
	}
	return nil
}

func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
