package ports

import (
	"context"
	"time"
)

// PasswordHasher produces and checks one-way salted digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// Identity is the verified content of an access token.
type Identity struct {
	SubjectID string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed access token.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and verifies signed identity assertions.
// Verify returns domain.ErrInvalidToken for every kind of failure.
type TokenService interface {
	Issue(subjectID, role string) (IssuedToken, error)
	Verify(token string) (Identity, error)
}

// TokenDenylist remembers revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
