package entities

import "github.com/shopspring/decimal"

// WeeklyUtilization is the scheduled load of one bay over one week
type WeeklyUtilization struct {
	BayID                 BayID           `json:"bay_id"`
	WeekStart             Date            `json:"week_start"`
	WeekEnd               Date            `json:"week_end"`
	ScheduledHours        decimal.Decimal `json:"scheduled_hours"`
	Capacity              decimal.Decimal `json:"capacity"`
	UtilizationPercentage decimal.Decimal `json:"utilization_percentage"` // not clamped; over 100 means over-commitment
	AlignedPhases         []PhaseWindow   `json:"aligned_phases"`
}

// ProjectCount returns the number of distinct projects touching the bay this week
func (u WeeklyUtilization) ProjectCount() int {
	seen := make(map[ProjectID]bool)
	for _, w := range u.AlignedPhases {
		seen[w.ProjectID] = true
	}
	return len(seen)
}

// IsOvercommitted reports whether scheduled hours exceed capacity
func (u WeeklyUtilization) IsOvercommitted() bool {
	return u.UtilizationPercentage.GreaterThan(decimal.NewFromInt(100))
}

// BayMonthUtilization is one bay's averaged weekly utilization over a month
type BayMonthUtilization struct {
	BayID                 BayID           `json:"bay_id"`
	BayName               string          `json:"bay_name"`
	UtilizationPercentage decimal.Decimal `json:"utilization_percentage"`
	ProjectCount          int             `json:"project_count"`
	Active                bool            `json:"active"`
}

// ForecastMonth is the projected utilization of all counted bays for one month
type ForecastMonth struct {
	Month              Date                  `json:"month"`
	Weeks              int                   `json:"weeks"`
	PerBayUtilization  []BayMonthUtilization `json:"per_bay_utilization"`
	AverageUtilization decimal.Decimal       `json:"average_utilization"`
	ActiveBays         int                   `json:"active_bays"`
}

// CurrentProject identifies the project occupying a bay
type CurrentProject struct {
	ProjectID  ProjectID  `json:"project_id"`
	Name       string     `json:"name"`
	ScheduleID ScheduleID `json:"schedule_id"`
}

// BayAvailability reports when a bay is next free
type BayAvailability struct {
	BayID             BayID           `json:"bay_id"`
	BayName           string          `json:"bay_name"`
	NextAvailableDate Date            `json:"next_available_date"`
	DaysUntilFree     int             `json:"days_until_free"`
	CurrentProject    *CurrentProject `json:"current_project,omitempty"`
}

// CapacityWeek is one week of the fixed-allowance capacity forecast
type CapacityWeek struct {
	WeekStart         Date            `json:"week_start"`
	WeekEnd           Date            `json:"week_end"`
	TotalCapacity     decimal.Decimal `json:"total_capacity"`
	UsedCapacity      decimal.Decimal `json:"used_capacity"`
	AvailableCapacity decimal.Decimal `json:"available_capacity"`
	Utilization       decimal.Decimal `json:"utilization"` // clamped to [0, 100]
}
