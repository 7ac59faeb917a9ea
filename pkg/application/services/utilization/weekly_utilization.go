package utilization

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/application/services/shared"
	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/services"
)

var hundred = decimal.NewFromInt(100)

// WeeklyUtilizationCalculator computes how much of each bay's weekly
// capacity is consumed by the phase windows of its schedules
type WeeklyUtilizationCalculator struct {
	resolver *services.PhaseAllocationResolver
}

// NewWeeklyUtilizationCalculator creates a new calculator
func NewWeeklyUtilizationCalculator(resolver *services.PhaseAllocationResolver) *WeeklyUtilizationCalculator {
	if resolver == nil {
		resolver = services.NewPhaseAllocationResolver()
	}
	return &WeeklyUtilizationCalculator{resolver: resolver}
}

// Calculate returns one WeeklyUtilization per bay and week, ordered by bay
// (in the order given) and then by week. Week w covers
// [windowStart+7w, windowStart+7w+6]. Schedules on bays outside the given
// set are ignored.
func (c *WeeklyUtilizationCalculator) Calculate(
	schedules []entities.ManufacturingSchedule,
	projects []entities.Project,
	bays []entities.ManufacturingBay,
	windowStart entities.Date,
	weeks int,
) []entities.WeeklyUtilization {
	weekStarts := shared.WeekStarts(windowStart, weeks)
	if len(weekStarts) == 0 || len(bays) == 0 {
		return nil
	}

	projectIndex := make(map[entities.ProjectID]*entities.Project, len(projects))
	for i := range projects {
		projectIndex[projects[i].ID] = &projects[i]
	}
	baySet := make(map[entities.BayID]bool, len(bays))
	for _, bay := range bays {
		baySet[bay.ID] = true
	}

	loads := c.bookLoads(schedules, projectIndex, baySet, weekStarts)

	result := make([]entities.WeeklyUtilization, 0, len(bays)*len(weekStarts))
	for i := range bays {
		bay := &bays[i]
		capacity := bay.WeeklyCapacity()

		for _, weekStart := range weekStarts {
			u := entities.WeeklyUtilization{
				BayID:                 bay.ID,
				WeekStart:             weekStart,
				WeekEnd:               weekStart.AddDays(6),
				ScheduledHours:        decimal.Zero,
				Capacity:              capacity,
				UtilizationPercentage: decimal.Zero,
			}
			if lc := loads.Get(bay.ID, weekStart); lc != nil {
				u.ScheduledHours = lc.Hours
				u.AlignedPhases = lc.AlignedPhases
			}
			u.UtilizationPercentage = Percentage(u.ScheduledHours, capacity)
			result = append(result, u)
		}
	}

	return result
}

// bookLoads prorates every phase window onto the weeks it overlaps
func (c *WeeklyUtilizationCalculator) bookLoads(
	schedules []entities.ManufacturingSchedule,
	projectIndex map[entities.ProjectID]*entities.Project,
	baySet map[entities.BayID]bool,
	weekStarts []entities.Date,
) shared.LoadMap {
	loads := shared.NewLoadMap()

	for i := range schedules {
		schedule := &schedules[i]
		if !baySet[schedule.BayID] || !schedule.HasDates() {
			continue
		}

		windows := c.resolver.Resolve(schedule, projectIndex[schedule.ProjectID])
		for _, weekStart := range weekStarts {
			weekEnd := weekStart.AddDays(6)
			if !schedule.Overlaps(weekStart, weekEnd) {
				continue
			}

			from := decimal.NewFromInt(int64(weekStart.DaysSince(schedule.StartDate)))
			to := from.Add(decimal.NewFromInt(7))
			for _, window := range windows {
				if !window.OverlapDays(from, to).IsPositive() {
					continue
				}
				loads.Add(schedule.BayID, weekStart, window, window.HoursWithin(from, to))
			}
		}
	}

	return loads
}

// Percentage returns hours as a percentage of capacity, or zero when
// capacity is not positive. The result is not clamped.
func Percentage(hours, capacity decimal.Decimal) decimal.Decimal {
	if !capacity.IsPositive() {
		return decimal.Zero
	}
	return hours.Mul(hundred).Div(capacity)
}
