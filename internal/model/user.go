package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	// FindOrCreate upserts the user identified by cuid from a directory profile.
	FindOrCreate(ctx context.Context, cuid string, profile DirectoryProfile) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

// User represents a durable user record materialized from the directory.
type User struct {
	ID          uuid.UUID
	Cuid        string
	Name        string
	Email       string
	Phone       string
	Department  string
	Status      string
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserView is the client-facing representation of an authenticated user.
type UserView struct {
	ID         uuid.UUID `json:"id"`
	Cuid       string    `json:"cuid"`
	Name       string    `json:"name"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	Department *string   `json:"department"`
}

// NewUserView builds a UserView; empty optional fields are rendered as null.
func NewUserView(u User) UserView {
	return UserView{
		ID:         u.ID,
		Cuid:       u.Cuid,
		Name:       u.Name,
		Email:      optional(u.Email),
		Phone:      optional(u.Phone),
		Department: optional(u.Department),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
