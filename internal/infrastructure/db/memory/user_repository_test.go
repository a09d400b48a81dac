package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karyawan/staff-api/internal/core/domain"
)

func seedUser(id, username, email, role string, created time.Time) *domain.User {
	return &domain.User{ID: id, Username: username, Email: email, Role: role, CreatedAt: created, UpdatedAt: created}
}

func TestUserRepository_UniqueUsernameAndEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	now := time.Now()

	if _, err := repo.Create(ctx, seedUser("1", "alice", "alice@example.com", domain.RoleUser, now)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, seedUser("2", "alice", "other@example.com", domain.RoleUser, now)); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for username, got %v", err)
	}
	if _, err := repo.Create(ctx, seedUser("3", "bob", "alice@example.com", domain.RoleUser, now)); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for email, got %v", err)
	}
}

func TestUserRepository_FindByIdentifier(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	_, _ = repo.Create(ctx, seedUser("1", "alice", "alice@example.com", domain.RoleUser, time.Now()))

	for _, ident := range []string{"alice", "alice@example.com"} {
		u, err := repo.FindByIdentifier(ctx, ident)
		if err != nil || u.ID != "1" {
			t.Fatalf("lookup %q: %+v %v", ident, u, err)
		}
	}
	if _, err := repo.FindByIdentifier(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ListByRoleOrdered(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	base := time.Now()
	_, _ = repo.Create(ctx, seedUser("b", "second", "s@example.com", domain.RoleEmployee, base.Add(time.Minute)))
	_, _ = repo.Create(ctx, seedUser("a", "first", "f@example.com", domain.RoleEmployee, base))
	_, _ = repo.Create(ctx, seedUser("c", "admin", "a@example.com", domain.RoleAdmin, base))

	list, err := repo.ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	now := time.Now()
	_, _ = repo.Create(ctx, seedUser("1", "alice", "alice@example.com", domain.RoleUser, now))
	_, _ = repo.Create(ctx, seedUser("2", "bob", "bob@example.com", domain.RoleUser, now))

	clash := seedUser("1", "bob", "alice@example.com", domain.RoleUser, now)
	if _, err := repo.Update(ctx, clash); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists on update, got %v", err)
	}
	if _, err := repo.Update(ctx, seedUser("9", "x", "x@example.com", domain.RoleUser, now)); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on update, got %v", err)
	}

	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
