package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ubora-rdc/ubora-auth/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, cuid, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(department, ''),
			  status, last_login_at, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Cuid, &user.Name, &user.Email, &user.Phone, &user.Department,
		&user.Status, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// FindOrCreate inserts the user on first login and refreshes the directory
// attributes on later ones.
func (r *UserRepository) FindOrCreate(ctx context.Context, cuid string, profile model.DirectoryProfile) (model.User, error) {
	query := `INSERT INTO users (id, cuid, name, email, phone, department, status, last_login_at, created_at, updated_at)
			  VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $8, $8)
			  ON CONFLICT (cuid) DO UPDATE SET
			      name = EXCLUDED.name,
			      email = EXCLUDED.email,
			      phone = EXCLUDED.phone,
			      department = EXCLUDED.department,
			      status = EXCLUDED.status,
			      last_login_at = EXCLUDED.last_login_at,
			      updated_at = EXCLUDED.updated_at
			  RETURNING ` + userColumns

	now := time.Now().UTC()
	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		uuid.New(), cuid, profile.DisplayName, profile.Email, profile.Phone, profile.Department,
		profile.StatusOrDefault(), now,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}
