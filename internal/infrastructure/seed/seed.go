// Package seed loads bootstrap accounts from a YAML file.
//
//	users:
//	  - username: root
//	    email: root@example.com
//	    password: Secret1
//	    role: admin
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/karyawan/staff-api/internal/core/domain"
	"github.com/karyawan/staff-api/internal/core/ports"
)

type usersFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Result summarises one seeding run.
type Result struct {
	Created int
	Skipped int
}

// Seeder inserts the accounts listed in a seed file, skipping any whose
// username or email is already taken.
type Seeder struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewSeeder(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Seeder {
	return &Seeder{repo: repo, hasher: hasher, log: log}
}

// FromFile reads path and seeds its users.
func (s *Seeder) FromFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read seed file: %w", err)
	}
	return s.FromYAML(ctx, data)
}

// FromYAML seeds the users described by data.
func (s *Seeder) FromYAML(ctx context.Context, data []byte) (Result, error) {
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return Result{}, fmt.Errorf("parse seed file: %w", err)
	}

	var res Result
	for i, u := range uf.Users {
		if u.Username == "" || u.Email == "" || u.Password == "" {
			return res, fmt.Errorf("seed user %d: username, email and password are required", i)
		}
		role := u.Role
		if role == "" {
			role = domain.RoleUser
		}
		if !validRole(role) {
			return res, fmt.Errorf("seed user %q: unknown role %q", u.Username, role)
		}

		exists, err := s.repo.ExistsByUsernameOrEmail(ctx, u.Username, u.Email, "")
		if err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		if exists {
			res.Skipped++
			continue
		}

		hash, err := s.hasher.Hash(u.Password)
		if err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Username, err)
		}

		now := time.Now().UTC()
		_, err = s.repo.Create(ctx, &domain.User{
			ID:           uuid.NewString(),
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, domain.ErrUserExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Username, err)
		}

		s.log.Info().Str("username", u.Username).Str("role", role).Msg("seeded user")
		res.Created++
	}
	return res, nil
}

func validRole(role string) bool {
	switch role {
	case domain.RoleUser, domain.RoleAdmin, domain.RoleEmployee:
		return true
	}
	return false
}
