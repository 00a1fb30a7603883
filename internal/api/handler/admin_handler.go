package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers returns every profile ordered by email.
//
// @Summary      List all user profiles
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Data: users})
}

// UpdateUser changes one user's role and/or status and returns the freshly
// read list.
//
// @Summary      Update a user's role or status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Principal id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userListResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing user id")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input ports.UserUpdateInput
	if req.Role != "" {
		role := domain.Role(req.Role)
		input.Role = &role
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		input.Status = &status
	}

	users, err := h.adminService.UpdateUser(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Data: users})
}

// ActiveSessions lists currently signed-in principals.
//
// @Summary      List active sessions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/sessions [get]
func (h *AdminHandler) ActiveSessions(c echo.Context) error {
	sessions, err := h.adminService.ActiveSessions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionListResponse{Data: sessions})
}
