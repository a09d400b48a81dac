package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/karyawan/staff-api/internal/core/domain"
)

// userRecord is the relational row for a user. Username and email carry
// unique indexes; they are the authoritative duplicate guard.
type userRecord struct {
	ID             string     `gorm:"type:varchar(36);primaryKey"`
	Username       string     `gorm:"size:50;uniqueIndex;not null"`
	Email          string     `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash   string     `gorm:"size:255;not null"`
	Role           string     `gorm:"size:20;not null;default:user;index"`
	PhoneNumber    *string    `gorm:"size:32"`
	Address        *string    `gorm:"size:255"`
	DateOfBirth    *time.Time `gorm:"type:date"`
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string {
	return "users"
}

// UserRepository implements ports.UserRepository on Postgres via GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Migrate creates or updates the users table and its indexes.
func (r *UserRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&userRecord{})
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := toRecord(user)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return toDomain(rec), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.first(ctx, "username = ? OR email = ?", identifier, identifier)
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&userRecord{}).Where("(username = ? OR email = ?)", username, email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var recs []userRecord
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("created_at ASC, id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*domain.User, len(recs))
	for i := range recs {
		out[i] = toDomain(recs[i])
	}
	return out, nil
}

// Update writes every mutable column, including NULLs for cleared profile fields.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := toRecord(user)
	res := r.db.WithContext(ctx).
		Model(&userRecord{ID: rec.ID}).
		Select("username", "email", "password_hash", "role", "phone_number", "address", "date_of_birth", "profile_picture", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, rec.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec userRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(rec), nil
}

func toRecord(u *domain.User) userRecord {
	return userRecord{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           u.Role,
		PhoneNumber:    u.Profile.PhoneNumber,
		Address:        u.Profile.Address,
		DateOfBirth:    u.Profile.DateOfBirth,
		ProfilePicture: u.Profile.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toDomain(rec userRecord) *domain.User {
	return &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         rec.Role,
		Profile: domain.Profile{
			PhoneNumber:    rec.PhoneNumber,
			Address:        rec.Address,
			DateOfBirth:    rec.DateOfBirth,
			ProfilePicture: rec.ProfilePicture,
		},
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}
}
