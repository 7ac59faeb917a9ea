package forecast

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/application/services/shared"
	"github.com/vsinha/bayplan/pkg/application/services/utilization"
	"github.com/vsinha/bayplan/pkg/domain/entities"
)

const (
	// MinMonths and MaxMonths bound the forward utilization horizon
	MinMonths = 1
	MaxMonths = 24

	// DefaultWeeklyAllowanceHours is the fixed per-bay allowance used by CapacityForecast
	DefaultWeeklyAllowanceHours = 40
)

// CapacityForecaster projects bay utilization and availability forward in time
type CapacityForecaster struct {
	calculator      *utilization.WeeklyUtilizationCalculator
	weeklyAllowance decimal.Decimal
}

// NewCapacityForecaster creates a new forecaster. A non-positive allowance
// falls back to DefaultWeeklyAllowanceHours.
func NewCapacityForecaster(
	calculator *utilization.WeeklyUtilizationCalculator,
	weeklyAllowance decimal.Decimal,
) *CapacityForecaster {
	if calculator == nil {
		calculator = utilization.NewWeeklyUtilizationCalculator(nil)
	}
	if !weeklyAllowance.IsPositive() {
		weeklyAllowance = decimal.NewFromInt(DefaultWeeklyAllowanceHours)
	}
	return &CapacityForecaster{
		calculator:      calculator,
		weeklyAllowance: weeklyAllowance,
	}
}

// FutureBayUtilization averages weekly utilization per bay for each month
// starting with the month containing now. months is clamped to [1, 24].
// Bays with no project touching the month are reported inactive and left out
// of the month's average.
func (f *CapacityForecaster) FutureBayUtilization(
	snapshot *entities.Snapshot,
	now entities.Date,
	months int,
) []entities.ForecastMonth {
	months = min(max(months, MinMonths), MaxMonths)
	if snapshot == nil || !now.IsSet() {
		return nil
	}

	result := make([]entities.ForecastMonth, 0, months)
	for m := 0; m < months; m++ {
		monthStart := now.AddMonths(m)
		mondays := shared.MondaysInMonth(monthStart)
		weekly := f.calculator.Calculate(snapshot.Schedules, snapshot.Projects, snapshot.Bays, mondays[0], len(mondays))

		result = append(result, f.summarizeMonth(monthStart, len(mondays), snapshot.Bays, weekly))
	}
	return result
}

func (f *CapacityForecaster) summarizeMonth(
	monthStart entities.Date,
	weeks int,
	bays []entities.ManufacturingBay,
	weekly []entities.WeeklyUtilization,
) entities.ForecastMonth {
	byBay := make(map[entities.BayID][]entities.WeeklyUtilization, len(bays))
	for _, u := range weekly {
		byBay[u.BayID] = append(byBay[u.BayID], u)
	}

	month := entities.ForecastMonth{
		Month:              monthStart,
		Weeks:              weeks,
		PerBayUtilization:  make([]entities.BayMonthUtilization, 0, len(bays)),
		AverageUtilization: decimal.Zero,
	}

	activeTotal := decimal.Zero
	for i := range bays {
		bay := &bays[i]
		weeksForBay := byBay[bay.ID]

		total := decimal.Zero
		projects := make(map[entities.ProjectID]bool)
		for _, u := range weeksForBay {
			total = total.Add(u.UtilizationPercentage)
			for _, w := range u.AlignedPhases {
				projects[w.ProjectID] = true
			}
		}

		entry := entities.BayMonthUtilization{
			BayID:                 bay.ID,
			BayName:               bay.DisplayName(),
			UtilizationPercentage: decimal.Zero,
			ProjectCount:          len(projects),
			Active:                len(projects) > 0,
		}
		if len(weeksForBay) > 0 {
			entry.UtilizationPercentage = total.Div(decimal.NewFromInt(int64(len(weeksForBay))))
		}
		if entry.Active {
			month.ActiveBays++
			activeTotal = activeTotal.Add(entry.UtilizationPercentage)
		}
		month.PerBayUtilization = append(month.PerBayUtilization, entry)
	}

	if month.ActiveBays > 0 {
		month.AverageUtilization = activeTotal.Div(decimal.NewFromInt(int64(month.ActiveBays)))
	}
	return month
}

// NextAvailableBays reports, per bay, the date it is next free. A bay
// occupied today by a schedule is free from that schedule's end date;
// otherwise it is available today.
func (f *CapacityForecaster) NextAvailableBays(snapshot *entities.Snapshot, now entities.Date) []entities.BayAvailability {
	if snapshot == nil {
		return nil
	}

	result := make([]entities.BayAvailability, 0, len(snapshot.Bays))
	for i := range snapshot.Bays {
		bay := &snapshot.Bays[i]
		availability := entities.BayAvailability{
			BayID:             bay.ID,
			BayName:           bay.DisplayName(),
			NextAvailableDate: now,
		}

		schedules := snapshot.SchedulesForBay(bay.ID)
		slices.SortStableFunc(schedules, func(a, b entities.ManufacturingSchedule) int {
			if c := a.EndDate.Compare(b.EndDate); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})

		for j := range schedules {
			s := &schedules[j]
			if !s.Contains(now) {
				continue
			}
			availability.NextAvailableDate = s.EndDate
			availability.DaysUntilFree = s.EndDate.DaysSince(now)
			availability.CurrentProject = &entities.CurrentProject{
				ProjectID:  s.ProjectID,
				Name:       string(s.ProjectID),
				ScheduleID: s.ID,
			}
			if project := snapshot.Project(s.ProjectID); project != nil {
				availability.CurrentProject.Name = project.DisplayName()
			}
			break
		}

		result = append(result, availability)
	}
	return result
}

// CapacityForecast compares scheduled hours against a fixed weekly allowance
// per bay for each week starting at the Monday of now's week. Schedule hours
// are spread evenly over the schedule's days. Utilization is clamped to [0, 100].
func (f *CapacityForecaster) CapacityForecast(
	snapshot *entities.Snapshot,
	now entities.Date,
	weeks int,
) []entities.CapacityWeek {
	if snapshot == nil {
		return nil
	}
	weekStarts := shared.WeekStarts(now.StartOfWeek(), weeks)
	if len(weekStarts) == 0 {
		return nil
	}

	baySet := make(map[entities.BayID]bool, len(snapshot.Bays))
	for _, bay := range snapshot.Bays {
		baySet[bay.ID] = true
	}
	total := f.weeklyAllowance.Mul(decimal.NewFromInt(int64(len(snapshot.Bays))))

	result := make([]entities.CapacityWeek, 0, len(weekStarts))
	for _, weekStart := range weekStarts {
		weekEnd := weekStart.AddDays(6)

		used := decimal.Zero
		for i := range snapshot.Schedules {
			s := &snapshot.Schedules[i]
			if !baySet[s.BayID] || !s.HasDates() {
				continue
			}
			overlap := entities.OverlapDays(s.StartDate, s.EndDate, weekStart, weekEnd)
			if overlap == 0 {
				continue
			}
			hours := s.HoursFor(snapshot.Project(s.ProjectID))
			used = used.Add(hours.Mul(decimal.NewFromInt(int64(overlap))).Div(decimal.NewFromInt(int64(s.DurationDays()))))
		}

		week := entities.CapacityWeek{
			WeekStart:         weekStart,
			WeekEnd:           weekEnd,
			TotalCapacity:     total,
			UsedCapacity:      used,
			AvailableCapacity: decimal.Max(total.Sub(used), decimal.Zero),
			Utilization:       decimal.Zero,
		}
		if total.IsPositive() {
			week.Utilization = clamp(utilization.Percentage(used, total), decimal.Zero, decimal.NewFromInt(100))
		}
		result = append(result, week)
	}
	return result
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, lo), hi)
}
