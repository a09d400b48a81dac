package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/karyawan/staff-api/internal/api/metrics"
	"github.com/karyawan/staff-api/internal/core/domain"
	"github.com/karyawan/staff-api/internal/core/ports"
)

// Keys under which Auth stores the verified identity on the echo.Context.
const (
	CtxUserID  = "user_id"
	CtxRole    = "role"
	CtxTokenID = "token_id"
)

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
// ok is false when the header is absent or not a bearer credential.
func BearerToken(c echo.Context) (token string, present, ok bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true, false
	}
	token = strings.TrimSpace(parts[1])
	return token, true, token != ""
}

// Auth verifies the bearer token and injects the identity into context.
// A nil denylist skips the revocation lookup.
func Auth(tokens ports.TokenService, denylist ports.TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, present, ok := BearerToken(c)
			if !present {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}
			if !ok {
				metrics.TokenRejectionsTotal.WithLabelValues("malformed_header").Inc()
				return domain.ErrInvalidToken
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrInvalidToken
			}

			if denylist != nil {
				revoked, err := denylist.IsRevoked(c.Request().Context(), id.TokenID)
				if err != nil {
					return fmt.Errorf("check token revocation: %w", err)
				}
				if revoked {
					metrics.TokenRejectionsTotal.WithLabelValues("revoked").Inc()
					return domain.ErrTokenRevoked
				}
			}

			c.Set(CtxUserID, id.SubjectID)
			c.Set(CtxRole, id.Role)
			c.Set(CtxTokenID, id.TokenID)

			return next(c)
		}
	}
}
