package domain

// Zones on the inspection line, in display order.
var Zones = []string{"A", "B", "C", "D"}

// TodaySummary aggregates the current production day.
type TodaySummary struct {
	OperatingTime    string  `json:"operating_time"`
	DefectRate       float64 `json:"defect_rate"`
	NormalRate       float64 `json:"normal_rate"`
	TotalProduction  int     `json:"total_production"`
	DefectCount      int     `json:"defect_count"`
	NormalCount      int     `json:"normal_count"`
	TargetProduction int     `json:"target_production"`
	Efficiency       float64 `json:"efficiency"`
}

// ZoneSeriesPoint is one hourly sample of per-zone inspection throughput.
type ZoneSeriesPoint struct {
	Time  string         `json:"time"`
	Zones map[string]int `json:"zones"`
}

// HourlyProduction is one row of the production/defect table.
type HourlyProduction struct {
	Hour       string `json:"hour"`
	Production int    `json:"production"`
	Defects    int    `json:"defects"`
}

// DefectShare is one slice of the defect-type distribution.
type DefectShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}
