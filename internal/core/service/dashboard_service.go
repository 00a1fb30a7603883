package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// Dashboard metrics are simulated line telemetry: the summary and the hourly
// table are fixed for the production day, the zone series is regenerated per
// request, and danger zones are rolled by the background watcher.

var todaySummary = domain.TodaySummary{
	OperatingTime:    "22h 30m",
	DefectRate:       5,
	NormalRate:       95,
	TotalProduction:  2847,
	DefectCount:      142,
	NormalCount:      2705,
	TargetProduction: 3000,
	Efficiency:       94.9,
}

var defectTypes = []domain.DefectShare{
	{Name: "metal contaminant", Value: 45, Color: "#EF4444"},
	{Name: "non-metal contaminant", Value: 32, Color: "#F59E0B"},
	{Name: "crack/breakage", Value: 28, Color: "#3B82F6"},
	{Name: "shape defect", Value: 22, Color: "#8B5CF6"},
	{Name: "other", Value: 15, Color: "#6B7280"},
}

var hourlyProduction = []domain.HourlyProduction{
	{Hour: "00:00", Production: 98, Defects: 5},
	{Hour: "01:00", Production: 102, Defects: 4},
	{Hour: "02:00", Production: 95, Defects: 6},
	{Hour: "03:00", Production: 110, Defects: 3},
	{Hour: "04:00", Production: 105, Defects: 7},
	{Hour: "05:00", Production: 98, Defects: 4},
	{Hour: "06:00", Production: 115, Defects: 5},
	{Hour: "07:00", Production: 120, Defects: 8},
	{Hour: "08:00", Production: 125, Defects: 6},
	{Hour: "09:00", Production: 118, Defects: 5},
	{Hour: "10:00", Production: 122, Defects: 7},
	{Hour: "11:00", Production: 128, Defects: 4},
	{Hour: "12:00", Production: 95, Defects: 3},
	{Hour: "13:00", Production: 130, Defects: 9},
	{Hour: "14:00", Production: 125, Defects: 6},
	{Hour: "15:00", Production: 120, Defects: 5},
	{Hour: "16:00", Production: 118, Defects: 7},
	{Hour: "17:00", Production: 122, Defects: 4},
	{Hour: "18:00", Production: 115, Defects: 6},
	{Hour: "19:00", Production: 110, Defects: 5},
	{Hour: "20:00", Production: 108, Defects: 8},
	{Hour: "21:00", Production: 105, Defects: 4},
	{Hour: "22:00", Production: 98, Defects: 5},
	{Hour: "23:00", Production: 92, Defects: 3},
}

// dangerThresholds: a zone goes into the danger list when the roll exceeds
// its threshold, so higher means rarer.
var dangerThresholds = map[string]float64{
	"A": 0.80,
	"B": 0.85,
	"C": 0.90,
	"D": 0.87,
}

// DashboardService produces the home screen data.
type DashboardService struct {
	roll func() float64
	log  zerolog.Logger

	mu          sync.RWMutex
	dangerZones []string
}

// NewDashboardService returns a service using the default random source.
func NewDashboardService(log zerolog.Logger) *DashboardService {
	return &DashboardService{roll: rand.Float64, log: log}
}

// NewDashboardServiceWithRoll injects the random source, for tests.
func NewDashboardServiceWithRoll(roll func() float64, log zerolog.Logger) *DashboardService {
	return &DashboardService{roll: roll, log: log}
}

func (s *DashboardService) Summary() domain.TodaySummary {
	return todaySummary
}

// ZoneSeries returns 24 hourly samples per zone, values in [20, 50).
func (s *DashboardService) ZoneSeries() []domain.ZoneSeriesPoint {
	points := make([]domain.ZoneSeriesPoint, 0, 24)
	for hour := 0; hour < 24; hour++ {
		zones := make(map[string]int, len(domain.Zones))
		for _, z := range domain.Zones {
			zones[z] = 20 + int(s.roll()*30)
		}
		points = append(points, domain.ZoneSeriesPoint{
			Time:  fmt.Sprintf("%d:00", hour),
			Zones: zones,
		})
	}
	return points
}

func (s *DashboardService) HourlyProduction() []domain.HourlyProduction {
	out := make([]domain.HourlyProduction, len(hourlyProduction))
	copy(out, hourlyProduction)
	return out
}

func (s *DashboardService) DefectTypes() []domain.DefectShare {
	out := make([]domain.DefectShare, len(defectTypes))
	copy(out, defectTypes)
	return out
}

func (s *DashboardService) DangerZones() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.dangerZones))
	copy(out, s.dangerZones)
	return out
}

// StartWatcher recomputes the danger-zone list every interval until ctx is
// cancelled.
func (s *DashboardService) StartWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.rollDangerZones()
			}
		}
	}()
}

func (s *DashboardService) rollDangerZones() {
	zones := make([]string, 0, len(domain.Zones))
	for _, z := range domain.Zones {
		if s.roll() > dangerThresholds[z] {
			zones = append(zones, z)
		}
	}

	s.mu.Lock()
	s.dangerZones = zones
	s.mu.Unlock()

	if len(zones) > 0 {
		s.log.Debug().Strs("zones", zones).Msg("danger zones active")
	}
}
