package model

import (
	"context"

	"github.com/google/uuid"
)

// Role is the capability class of a portal user. The set is closed: every
// boundary that accepts a role string must go through Valid before the value
// enters the domain.
type Role string

const (
	// RoleStudent is the submitting party of the claim workflow.
	RoleStudent Role = "student"
	// RoleSupervisor is the reviewing party of the claim workflow.
	RoleSupervisor Role = "supervisor"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleSupervisor
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmailAndRole(ctx context.Context, email string, role Role) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, user User) (User, error)
	UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// User represents a portal account. PasswordHash never crosses the wire.
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Address      string    `json:"address,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	PasswordHash string    `json:"-"`
}

// ProfileUpdate carries the mutable profile fields of a user.
type ProfileUpdate struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}
