package ports

import (
	"context"

	"github.com/karyawan/staff-api/internal/core/domain"
)

// CreateEmployeeInput mirrors RegisterInput without a role: employees are
// always created with domain.RoleEmployee.
type CreateEmployeeInput struct {
	Username        string `json:"username"         validate:"required,max=50"`
	Email           string `json:"email"            validate:"required,email,max=255"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	ProfileInput
}

// UpdateEmployeeInput replaces an employee's mutable fields. An empty
// Password keeps the stored digest.
type UpdateEmployeeInput struct {
	Username        string `json:"username"         validate:"required,max=50"`
	Email           string `json:"email"            validate:"required,email,max=255"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	ProfileInput
}

// EmployeeService defines the admin-only employee record operations.
type EmployeeService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in CreateEmployeeInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateEmployeeInput) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
