package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karyawan/staff-api/internal/api/metrics"
	"github.com/karyawan/staff-api/internal/api/middleware"
	"github.com/karyawan/staff-api/internal/core/domain"
	"github.com/karyawan/staff-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterInput  true  "User registration details"
// @Success      201   {object}  userEnvelope
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userEnvelope{
		Message: "registration successful",
		User:    toUserResponse(user),
	})
}

// Login authenticates a user by username or email and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), req)
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		// An unknown identifier is a client error on this route, not a 404.
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, domain.ErrUserNotFound.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message:   "login successful",
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt.UTC(),
		User:      toUserResponse(res.User),
	})
}

// Me returns the profile of the authenticated user.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Message: "profile retrieved",
		User:    toUserResponse(user),
	})
}

// Logout always acknowledges. When revocation is enabled the presented
// bearer token stops being accepted.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorBody
// @Router       /api/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _, _ := middleware.BearerToken(c)

	err := h.authService.Logout(c.Request().Context(), token)
	metrics.AuthAttemptsTotal.WithLabelValues("logout", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logout successful"})
}
