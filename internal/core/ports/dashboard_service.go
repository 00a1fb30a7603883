package ports

import "github.com/linewatch/xray-monitor/internal/core/domain"

// DashboardService serves the monitoring home screen data. Metrics are
// transient, process-local values with no identity or persistence.
type DashboardService interface {
	Summary() domain.TodaySummary
	// ZoneSeries returns 24 hourly samples of per-zone throughput,
	// regenerated on every call.
	ZoneSeries() []domain.ZoneSeriesPoint
	HourlyProduction() []domain.HourlyProduction
	DefectTypes() []domain.DefectShare
	// DangerZones returns the zones currently above their alarm threshold,
	// recomputed periodically by the background watcher.
	DangerZones() []string
}
