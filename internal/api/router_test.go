package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/karyawan/staff-api/internal/core/service"
	"github.com/karyawan/staff-api/internal/infrastructure/db/memory"
	"github.com/karyawan/staff-api/internal/infrastructure/http/handlers"
	"github.com/karyawan/staff-api/internal/infrastructure/security"
)

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (d *memDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
}

func newTestRouter(t *testing.T, revoke bool) *echo.Echo {
	t.Helper()
	repo := memory.NewUserRepository()
	hasher := security.NewBcryptHasher()
	tokens, err := security.NewJWTService("router-secret")
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}

	deps := Deps{
		Tokens:      tokens,
		ReadyChecks: map[string]handlers.Pinger{"store": repo},
		CORSOrigins: []string{"*"},
		Registerer:  prometheus.NewRegistry(),
		Log:         zerolog.Nop(),
	}
	if revoke {
		deps.Denylist = &memDenylist{revoked: make(map[string]time.Time)}
	}
	deps.AuthService = service.NewAuthService(repo, hasher, tokens, deps.Denylist, zerolog.Nop())
	deps.EmployeeService = service.NewEmployeeService(repo, hasher, zerolog.Nop())
	return NewRouter(deps)
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: invalid json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, resp
}

func registerAndLogin(t *testing.T, e *echo.Echo, username, role string) string {
	t.Helper()
	body := `{"username":"` + username + `","email":"` + username + `@example.com","password":"Secret1","confirm_password":"Secret1","role":"` + role + `"}`
	if code, resp := do(t, e, http.MethodPost, "/api/register", "", body); code != http.StatusCreated {
		t.Fatalf("register %s: %d %v", username, code, resp)
	}
	code, resp := do(t, e, http.MethodPost, "/api/login", "", `{"identifier":"`+username+`","password":"Secret1"}`)
	if code != http.StatusOK {
		t.Fatalf("login %s: %d %v", username, code, resp)
	}
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", username, resp)
	}
	return token
}

func TestRouter_Root(t *testing.T) {
	e := newTestRouter(t, false)
	if code, _ := do(t, e, http.MethodGet, "/", "", ""); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRouter_RegisterLoginMe(t *testing.T) {
	e := newTestRouter(t, false)
	token := registerAndLogin(t, e, "alice", "user")

	code, resp := do(t, e, http.MethodGet, "/api/me", token, "")
	if code != http.StatusOK {
		t.Fatalf("me: %d %v", code, resp)
	}
	user := resp["user"].(map[string]any)
	if user["username"] != "alice" || user["role"] != "user" {
		t.Fatalf("unexpected profile: %v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("digest leaked in profile")
	}
}

func TestRouter_RegisterValidationAndConflict(t *testing.T) {
	e := newTestRouter(t, false)

	code, resp := do(t, e, http.MethodPost, "/api/register", "", `{"email":"nope","password":"abc","confirm_password":"abd"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	details, _ := resp["details"].([]any)
	if len(details) < 5 {
		t.Fatalf("expected every violation listed, got %v", resp)
	}

	registerAndLogin(t, e, "bob", "user")
	code, _ = do(t, e, http.MethodPost, "/api/register", "",
		`{"username":"bob","email":"other@example.com","password":"Secret1","confirm_password":"Secret1"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", code)
	}
}

func TestRouter_RegisterOverlongPasswordIsBadRequest(t *testing.T) {
	e := newTestRouter(t, false)
	long := "A1" + strings.Repeat("x", 78)

	code, resp := do(t, e, http.MethodPost, "/api/register", "",
		`{"username":"gina","email":"gina@example.com","password":"`+long+`","confirm_password":"`+long+`"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %v", code, resp)
	}
	details, _ := resp["details"].([]any)
	found := false
	for _, d := range details {
		m, _ := d.(map[string]any)
		if m["field"] == "password" && m["rule"] == "max" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected password/max in details, got %v", resp)
	}
}

func TestRouter_LoginFailuresAreBadRequest(t *testing.T) {
	e := newTestRouter(t, false)
	registerAndLogin(t, e, "carol", "user")

	if code, _ := do(t, e, http.MethodPost, "/api/login", "", `{"identifier":"ghost","password":"Secret1"}`); code != http.StatusBadRequest {
		t.Fatalf("unknown user: expected 400, got %d", code)
	}
	if code, _ := do(t, e, http.MethodPost, "/api/login", "", `{"identifier":"carol","password":"Wrong1"}`); code != http.StatusBadRequest {
		t.Fatalf("wrong password: expected 400, got %d", code)
	}
}

func TestRouter_GuardsOnEmployeeRoutes(t *testing.T) {
	e := newTestRouter(t, false)

	if code, _ := do(t, e, http.MethodGet, "/api/employe", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/api/employe", "garbage", ""); code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", code)
	}
	if code, _ := do(t, e, http.MethodGet, "/api/me", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", code)
	}

	userToken := registerAndLogin(t, e, "dave", "user")
	if code, _ := do(t, e, http.MethodGet, "/api/employe", userToken, ""); code != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", code)
	}
	if code, _ := do(t, e, http.MethodPost, "/api/employe", userToken, `{}`); code != http.StatusForbidden {
		t.Fatalf("non-admin create: expected 403, got %d", code)
	}
}

func TestRouter_EmployeeLifecycle(t *testing.T) {
	e := newTestRouter(t, false)
	admin := registerAndLogin(t, e, "root", "admin")

	if code, _ := do(t, e, http.MethodGet, "/api/employe", admin, ""); code != http.StatusNotFound {
		t.Fatalf("empty list: expected 404, got %d", code)
	}

	code, resp := do(t, e, http.MethodPost, "/api/employe", admin,
		`{"username":"emma","email":"emma@example.com","password":"Secret1","confirm_password":"Secret1","phone_number":"0812"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %v", code, resp)
	}
	created := resp["data"].(map[string]any)
	id := created["id"].(string)
	if created["role"] != "employee" {
		t.Fatalf("expected employee role, got %v", created["role"])
	}

	code, resp = do(t, e, http.MethodGet, "/api/employe", admin, "")
	if code != http.StatusOK || resp["total"] != float64(1) {
		t.Fatalf("list: %d %v", code, resp)
	}

	if code, _ := do(t, e, http.MethodGet, "/api/employe/"+id, admin, ""); code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", code)
	}

	code, resp = do(t, e, http.MethodPut, "/api/employe/"+id, admin, `{"username":"emma.w","email":"emma@example.com"}`)
	if code != http.StatusOK {
		t.Fatalf("update: %d %v", code, resp)
	}
	updated := resp["data"].(map[string]any)
	if updated["username"] != "emma.w" || updated["phone_number"] != nil {
		t.Fatalf("expected replaced fields, got %v", updated)
	}

	// The old password still works because the update carried none.
	if code, _ := do(t, e, http.MethodPost, "/api/login", "", `{"identifier":"emma.w","password":"Secret1"}`); code != http.StatusOK {
		t.Fatalf("employee login after update: expected 200, got %d", code)
	}

	code, resp = do(t, e, http.MethodDelete, "/api/employe/"+id, admin, "")
	if code != http.StatusOK || resp["data"].(map[string]any)["id"] != id {
		t.Fatalf("delete: %d %v", code, resp)
	}
	if code, _ := do(t, e, http.MethodGet, "/api/employe/"+id, admin, ""); code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", code)
	}
}

func TestRouter_AdminRecordsAreNotEmployees(t *testing.T) {
	e := newTestRouter(t, false)
	admin := registerAndLogin(t, e, "root", "admin")

	_, resp := do(t, e, http.MethodGet, "/api/me", admin, "")
	adminID := resp["user"].(map[string]any)["id"].(string)

	if code, _ := do(t, e, http.MethodDelete, "/api/employe/"+adminID, admin, ""); code != http.StatusNotFound {
		t.Fatalf("expected admin record to be out of reach, got %d", code)
	}
}

func TestRouter_Logout(t *testing.T) {
	t.Run("stateless", func(t *testing.T) {
		e := newTestRouter(t, false)
		token := registerAndLogin(t, e, "erin", "user")

		if code, _ := do(t, e, http.MethodGet, "/api/logout", token, ""); code != http.StatusOK {
			t.Fatalf("logout: expected 200, got %d", code)
		}
		if code, _ := do(t, e, http.MethodGet, "/api/me", token, ""); code != http.StatusOK {
			t.Fatalf("token should remain valid without revocation, got %d", code)
		}
	})

	t.Run("with revocation", func(t *testing.T) {
		e := newTestRouter(t, true)
		token := registerAndLogin(t, e, "frank", "user")

		if code, _ := do(t, e, http.MethodGet, "/api/logout", token, ""); code != http.StatusOK {
			t.Fatalf("logout: expected 200, got %d", code)
		}
		if code, _ := do(t, e, http.MethodGet, "/api/me", token, ""); code != http.StatusUnauthorized {
			t.Fatalf("revoked token: expected 401, got %d", code)
		}
	})

	t.Run("without token", func(t *testing.T) {
		e := newTestRouter(t, true)
		if code, _ := do(t, e, http.MethodGet, "/api/logout", "", ""); code != http.StatusOK {
			t.Fatalf("logout without token: expected 200, got %d", code)
		}
	})
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t, false)
	if code, _ := do(t, e, http.MethodGet, "/health", "", ""); code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", code)
	}
	code, resp := do(t, e, http.MethodGet, "/health/ready", "", "")
	if code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("readiness: %d %v", code, resp)
	}
}
