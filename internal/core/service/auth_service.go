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

// AuthService implements registration, login, profile lookup and logout.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	denylist ports.TokenDenylist // nil keeps logout stateless
	validate *validation.Validator
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	denylist ports.TokenDenylist,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
	}
}

// Register validates the payload, hashes the password and stores a new
// account. The store's unique indexes have the final say on duplicates.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email, "")
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
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
		Role:         role,
		Profile:      profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login looks the identifier up as username or email and issues a token.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByIdentifier(ctx, in.Identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.log.Debug().Str("user_id", user.ID).Msg("password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	issued, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("token_id", issued.TokenID).Msg("user logged in")
	return &ports.LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindByID(ctx, userID)
}

// Logout acknowledges the request. With a denylist configured, a valid
// token is revoked until its natural expiry; invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if s.denylist == nil || rawToken == "" {
		return nil
	}

	id, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil
	}

	if err := s.denylist.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("user_id", id.SubjectID).Str("token_id", id.TokenID).Msg("token revoked")
	return nil
}

// toProfile converts validated profile input into the domain shape.
// Empty strings count as absent.
func toProfile(in ports.ProfileInput) (domain.Profile, error) {
	p := domain.Profile{
		PhoneNumber:    nonEmpty(in.PhoneNumber),
		Address:        nonEmpty(in.Address),
		ProfilePicture: nonEmpty(in.ProfilePicture),
	}
	if raw := nonEmpty(in.DateOfBirth); raw != nil {
		dob, err := validation.ParseDate(*raw)
		if err != nil {
			return domain.Profile{}, &domain.ValidationError{Violations: []domain.Violation{{
				Field: "date_of_birth", Rule: "birthdate", Message: "date_of_birth must be a past date formatted YYYY-MM-DD",
			}}}
		}
		dob = dob.UTC()
		p.DateOfBirth = &dob
	}
	return p, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
