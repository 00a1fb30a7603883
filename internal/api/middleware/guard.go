package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linewatch/xray-monitor/internal/api/guard"
	"github.com/linewatch/xray-monitor/internal/api/metrics"
	"github.com/linewatch/xray-monitor/internal/auth/state"
	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// ActivityToucher bumps the last-activity marker for a signed-in principal.
// May be nil when activity tracking is disabled.
type ActivityToucher interface {
	Touch(ctx context.Context, principalID string) error
}

// Guard enforces the role/status route guard. It reads the session injected
// by Auth, resolves the profile through the auth state store, and translates
// the guard decision to HTTP: redirects for missing session or role mismatch,
// a restriction notice for pending/blocked accounts, 503 while the auth state
// cannot be resolved. requiredRole empty means any role.
func Guard(store *state.Store, tracker ActivityToucher, requiredRole domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snapshot := guard.Snapshot{Session: SessionFromContext(c)}

			if snapshot.Session != nil {
				profile, err := store.Get(c.Request().Context(), snapshot.Session.PrincipalID)
				if err != nil {
					// Profile state unknown: neither content nor a redirect.
					snapshot.Loading = true
				} else {
					snapshot.Profile = profile
				}
			}

			decision := guard.Evaluate(snapshot, requiredRole)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case guard.DecisionChecking:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"error": "verifying authentication state, retry shortly",
				})
			case guard.DecisionRedirectLogin:
				return c.Redirect(http.StatusFound, "/")
			case guard.DecisionRedirectHome:
				return c.Redirect(http.StatusFound, "/home")
			case guard.DecisionRestricted:
				title, detail := guard.RestrictionNotice(snapshot.Profile.Status)
				return c.JSON(http.StatusForbidden, map[string]string{
					"status":  string(snapshot.Profile.Status),
					"title":   title,
					"message": detail,
				})
			}

			if tracker != nil {
				if err := tracker.Touch(c.Request().Context(), snapshot.Session.PrincipalID); err != nil {
					c.Logger().Warnf("activity touch failed: %v", err)
				}
			}
			return next(c)
		}
	}
}
