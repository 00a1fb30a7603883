package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linewatch/xray-monitor/internal/api/middleware"
	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware and
// fast-fails before any service call: a handler behind Auth must never see an
// absent or anonymous session.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFromContext(c)
	if s == nil || s.PrincipalID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return s, nil
}
