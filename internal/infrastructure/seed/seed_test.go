package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/karyawan/staff-api/internal/core/domain"
	"github.com/karyawan/staff-api/internal/infrastructure/db/memory"
	"github.com/karyawan/staff-api/internal/infrastructure/security"
)

const seedYAML = `
users:
  - username: root
    email: root@example.com
    password: Secret1
    role: admin
  - username: emma
    email: emma@example.com
    password: Secret1
    role: employee
  - username: plain
    email: plain@example.com
    password: Secret1
`

func TestSeeder_FromFile(t *testing.T) {
	repo := memory.NewUserRepository()
	hasher := security.NewBcryptHasher()
	s := NewSeeder(repo, hasher, zerolog.Nop())

	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	res, err := s.FromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Created != 3 || res.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	root, err := repo.FindByIdentifier(context.Background(), "root")
	if err != nil {
		t.Fatalf("root not seeded: %v", err)
	}
	if root.Role != domain.RoleAdmin || !hasher.Verify("Secret1", root.PasswordHash) {
		t.Fatalf("unexpected root record: %+v", root)
	}
	plain, _ := repo.FindByIdentifier(context.Background(), "plain")
	if plain.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %q", plain.Role)
	}

	again, err := s.FromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if again.Created != 0 || again.Skipped != 3 {
		t.Fatalf("expected idempotent reseed, got %+v", again)
	}
}

func TestSeeder_RejectsBadEntries(t *testing.T) {
	s := NewSeeder(memory.NewUserRepository(), security.NewBcryptHasher(), zerolog.Nop())

	if _, err := s.FromYAML(context.Background(), []byte("users:\n  - username: x\n")); err == nil {
		t.Fatalf("expected error for missing fields")
	}
	bad := "users:\n  - {username: x, email: x@example.com, password: Secret1, role: root}\n"
	if _, err := s.FromYAML(context.Background(), []byte(bad)); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if _, err := s.FromYAML(context.Background(), []byte("users: [")); err == nil {
		t.Fatalf("expected parse error")
	}
}
