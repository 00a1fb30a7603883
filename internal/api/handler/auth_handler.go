package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

// SessionTracker records login/logout activity. May be nil when tracking is
// disabled.
type SessionTracker interface {
	Track(ctx context.Context, principalID, email, ip string) error
	Clear(ctx context.Context, principalID string) error
}

type AuthHandler struct {
	authService ports.AuthService
	tracker     SessionTracker
}

func NewAuthHandler(authService ports.AuthService, tracker SessionTracker) *AuthHandler {
	return &AuthHandler{authService: authService, tracker: tracker}
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if h.tracker != nil {
		if trackErr := h.tracker.Track(c.Request().Context(), result.Profile.ID, result.Profile.Email, c.RealIP()); trackErr != nil {
			c.Logger().Warnf("session tracking failed: %v", trackErr)
		}
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Profile:   result.Profile,
	})
}

// Register creates a new account and its user_info profile.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Success      202   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	if result.ConfirmationPending {
		return c.JSON(http.StatusAccepted, registerResponse{
			Message: "registration received, check your email to confirm the address",
		})
	}

	msg := "registration complete, awaiting administrator approval"
	if result.Status == domain.StatusApproved {
		msg = "registration complete, the admin account is active immediately"
	}
	return c.JSON(http.StatusCreated, registerResponse{
		Message: msg,
		Status:  string(result.Status),
		Profile: result.Profile,
	})
}

// Logout clears the activity record for the calling principal. Tokens are
// stateless; the client discards its copy.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if h.tracker != nil {
		if err := h.tracker.Clear(c.Request().Context(), session.PrincipalID); err != nil {
			c.Logger().Warnf("session clear failed: %v", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
