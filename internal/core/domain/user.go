package domain

import "time"

const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Profile holds the optional personal fields of a user record.
// A nil pointer means the field was never provided.
type Profile struct {
	PhoneNumber    *string    `json:"phone_number,omitempty"`
	Address        *string    `json:"address,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
}

// User models an account stored in the credential store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsEmployee reports whether the record belongs to the employee tier.
func (u *User) IsEmployee() bool {
	return u != nil && u.Role == RoleEmployee
}
