package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/karyawan/staff-api/internal/api/metrics"
	"github.com/karyawan/staff-api/internal/core/ports"
)

// EmployeeHandler serves the admin-only employee routes.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

func observe(operation string, err error) {
	metrics.EmployeeOperationsTotal.WithLabelValues(operation, metrics.Result(err)).Inc()
}

// List handles GET /api/employe.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  employeeListEnvelope
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/employe [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	observe("list", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, employeeListEnvelope{
		Message: "employees retrieved",
		Data:    toUserResponses(users),
		Total:   len(users),
	})
}

// Get handles GET /api/employe/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  employeeEnvelope
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/employe/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	observe("get", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, employeeEnvelope{Message: "employee retrieved", Data: toUserResponse(user)})
}

// Create handles POST /api/employe.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateEmployeeInput  true  "Employee details"
// @Success      201   {object}  employeeEnvelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /api/employe [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req ports.CreateEmployeeInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Create(c.Request().Context(), req)
	observe("create", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, employeeEnvelope{Message: "employee created", Data: toUserResponse(user)})
}

// Update handles PUT /api/employe/:id. Omitting password keeps the current one.
//
// @Summary      Replace an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Employee id"
// @Param        body  body      ports.UpdateEmployeeInput  true  "Employee details"
// @Success      200   {object}  employeeEnvelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /api/employe/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	var req ports.UpdateEmployeeInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	observe("update", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, employeeEnvelope{Message: "employee updated", Data: toUserResponse(user)})
}

// Delete handles DELETE /api/employe/:id and echoes the removed record.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  employeeEnvelope
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/employe/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	user, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	observe("delete", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, employeeEnvelope{Message: "employee deleted", Data: toUserResponse(user)})
}
