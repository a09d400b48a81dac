package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/karyawan/staff-api/internal/api/middleware"
	"github.com/karyawan/staff-api/internal/core/domain"
)

// ctxIdentity returns the identity the Auth middleware attached to the
// request. A missing subject means the route was mounted without Auth.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if userID == "" || role == "" {
		return "", "", domain.ErrUnauthenticated
	}
	return userID, role, nil
}
