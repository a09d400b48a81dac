package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/karyawan/staff-api/internal/core/domain"
	"github.com/karyawan/staff-api/internal/core/ports"
	"github.com/karyawan/staff-api/internal/core/validation"
)

// EmployeeService manages records with the employee role. Every read or
// write by id ignores records of any other role.
type EmployeeService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	validate *validation.Validator
	log      zerolog.Logger
	now      func() time.Time
}

func NewEmployeeService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *EmployeeService {
	return &EmployeeService{
		repo:     repo,
		hasher:   hasher,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
	}
}

// List returns every employee. An empty result is reported as ErrNoEmployees.
func (s *EmployeeService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNoEmployees
	}
	return users, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.findEmployee(ctx, id)
}

func (s *EmployeeService) Create(ctx context.Context, in ports.CreateEmployeeInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email, "")
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	profile, err := toProfile(in.ProfileInput)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		Profile:      profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}

	s.log.Info().Str("employee_id", created.ID).Msg("employee created")
	return created, nil
}

// Update replaces the employee's mutable fields. The stored digest is only
// replaced when the payload carries a new password.
func (s *EmployeeService) Update(ctx context.Context, id string, in ports.UpdateEmployeeInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	current, err := s.findEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email, current.ID)
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	profile, err := toProfile(in.ProfileInput)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Username = in.Username
	next.Email = in.Email
	next.Profile = profile
	next.UpdatedAt = s.now().UTC()

	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("update employee: %w", err)
		}
		next.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, domain.ErrEmployeeNotFound
		case errors.Is(err, domain.ErrUserExists):
			return nil, err
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}

	s.log.Info().
		Str("employee_id", updated.ID).
		Bool("password_changed", in.Password != "").
		Msg("employee updated")
	return updated, nil
}

// Delete removes the employee and returns the record as it was.
func (s *EmployeeService) Delete(ctx context.Context, id string) (*domain.User, error) {
	current, err := s.findEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, current.ID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("delete employee: %w", err)
	}

	s.log.Info().Str("employee_id", current.ID).Msg("employee deleted")
	return current, nil
}

func (s *EmployeeService) findEmployee(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrEmployeeNotFound
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	if !user.IsEmployee() {
		return nil, domain.ErrEmployeeNotFound
	}
	return user, nil
}
