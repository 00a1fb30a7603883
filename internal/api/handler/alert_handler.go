package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

type alertListResponse struct {
	Data []domain.Alert `json:"data"`
}

type AlertHandler struct {
	alerts ports.AlertService
}

func NewAlertHandler(alerts ports.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// Recent returns the newest alerts, most recent first.
//
// @Summary      Recent alerts
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of alerts"
// @Success      200    {object}  alertListResponse
// @Router       /v1/alerts/recent [get]
func (h *AlertHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	alerts, err := h.alerts.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alertListResponse{Data: alerts})
}

// Detail returns one alert with its full detection metadata. Public, like
// the original alert detail view.
//
// @Summary      Alert detail
// @Tags         alerts
// @Produce      json
// @Param        id   path      string  true  "Alert id"
// @Success      200  {object}  domain.Alert
// @Failure      404  {object}  errorResponse
// @Router       /v1/alerts/{id} [get]
func (h *AlertHandler) Detail(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing alert id")
	}
	alert, err := h.alerts.Detail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}
