package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

type summaryResponse struct {
	Summary     domain.TodaySummary `json:"summary"`
	DangerZones []string            `json:"danger_zones"`
}

type DashboardHandler struct {
	dashboard ports.DashboardService
}

func NewDashboardHandler(dashboard ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns today's production aggregates plus the current danger zones.
//
// @Summary      Today's production summary
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Router       /v1/dashboard/summary [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, summaryResponse{
		Summary:     h.dashboard.Summary(),
		DangerZones: h.dashboard.DangerZones(),
	})
}

// ZoneSeries returns the 24h per-zone throughput series.
//
// @Summary      Per-zone hourly series
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ZoneSeriesPoint
// @Router       /v1/dashboard/zones [get]
func (h *DashboardHandler) ZoneSeries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.ZoneSeries())
}

// HourlyProduction returns the production/defect table.
//
// @Summary      Hourly production table
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.HourlyProduction
// @Router       /v1/dashboard/production [get]
func (h *DashboardHandler) HourlyProduction(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.HourlyProduction())
}

// DefectTypes returns the defect-type distribution.
//
// @Summary      Defect type distribution
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.DefectShare
// @Router       /v1/dashboard/defect-types [get]
func (h *DashboardHandler) DefectTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard.DefectTypes())
}
