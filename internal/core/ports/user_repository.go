package ports

import (
	"context"

	"github.com/karyawan/staff-api/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Implementations must enforce username and email uniqueness themselves
// and report violations as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIdentifier matches identifier against both username and email.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	// ExistsByUsernameOrEmail is advisory only; excludeID skips the record being updated.
	ExistsByUsernameOrEmail(ctx context.Context, username, email, excludeID string) (bool, error)
	ListByRole(ctx context.Context, role string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
