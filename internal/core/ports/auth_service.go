package ports

import (
	"context"
	"time"

	"github.com/karyawan/staff-api/internal/core/domain"
)

// ProfileInput carries the optional profile fields shared by every user payload.
type ProfileInput struct {
	PhoneNumber    *string `json:"phone_number"    validate:"omitempty,max=32"`
	Address        *string `json:"address"         validate:"omitempty,max=255"`
	DateOfBirth    *string `json:"date_of_birth"   validate:"omitempty,birthdate"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
}

// RegisterInput is the self-service sign-up payload.
type RegisterInput struct {
	Username        string `json:"username"         validate:"required,max=50"`
	Email           string `json:"email"            validate:"required,email,max=255"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	// Role defaults to domain.RoleUser when empty.
	Role string `json:"role" validate:"omitempty,oneof=user admin"`
	ProfileInput
}

// LoginInput identifies a user by username or email.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	Logout(ctx context.Context, rawToken string) error
}
