package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ubora-rdc/ubora-auth/internal/model"
)

var _ model.AccessTokenStore = (*AccessTokenRepository)(nil)

type AccessTokenRepository struct {
	db *Connection
}

func NewAccessTokenRepository(db *Connection) *AccessTokenRepository {
	return &AccessTokenRepository{db: db}
}

func (r *AccessTokenRepository) Create(ctx context.Context, token model.AccessToken) error {
	const query = `
        INSERT INTO access_tokens (
            id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.JTI, token.UserID, token.TokenHash, token.IssuedAt, token.ExpiresAt,
		token.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create access token: %w", err)
	}
	return nil
}

func (r *AccessTokenRepository) GetByJTI(ctx context.Context, jti string) (model.AccessToken, error) {
	const query = `
        SELECT id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, created_at, updated_at
        FROM access_tokens WHERE jti = $1
    `
	var at model.AccessToken
	err := r.db.QueryRowContext(ctx, query, jti).Scan(
		&at.ID, &at.JTI, &at.UserID, &at.TokenHash, &at.IssuedAt, &at.ExpiresAt,
		&at.RevokedAt, &at.CreatedAt, &at.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AccessToken{}, model.ErrNotFound
		}
		return model.AccessToken{}, fmt.Errorf("failed to get access token by jti: %w", err)
	}
	return at, nil
}

// RevokeByJTI marks the token revoked. Already revoked tokens keep their
// original revocation time.
func (r *AccessTokenRepository) RevokeByJTI(ctx context.Context, jti string) error {
	const query = `
        UPDATE access_tokens SET revoked_at = NOW(), updated_at = NOW()
        WHERE jti = $1 AND revoked_at IS NULL
    `
	if _, err := r.db.ExecContext(ctx, query, jti); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}
