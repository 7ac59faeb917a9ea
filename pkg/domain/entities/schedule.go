package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScheduleID represents a unique schedule identifier
type ScheduleID string

// ManufacturingSchedule assigns a project to a bay over an inclusive date range
type ManufacturingSchedule struct {
	ID         ScheduleID
	ProjectID  ProjectID
	BayID      BayID
	StartDate  Date
	EndDate    Date
	TotalHours decimal.NullDecimal // falls back to the project's total hours when not valid
	Row        int
}

// NewManufacturingSchedule creates a validated ManufacturingSchedule
func NewManufacturingSchedule(
	id ScheduleID,
	projectID ProjectID,
	bayID BayID,
	startDate, endDate Date,
	totalHours decimal.NullDecimal,
	row int,
) (*ManufacturingSchedule, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("schedule id cannot be empty")
	}
	if string(projectID) == "" {
		return nil, fmt.Errorf("project id cannot be empty")
	}
	if string(bayID) == "" {
		return nil, fmt.Errorf("bay id cannot be empty")
	}
	if startDate.IsSet() && endDate.IsSet() && startDate.After(endDate) {
		return nil, fmt.Errorf("start date %s cannot be after end date %s", startDate, endDate)
	}
	if totalHours.Valid && totalHours.Decimal.IsNegative() {
		return nil, fmt.Errorf("total hours cannot be negative, got %s", totalHours.Decimal)
	}
	if row < 0 {
		return nil, fmt.Errorf("row cannot be negative, got %d", row)
	}

	return &ManufacturingSchedule{
		ID:         id,
		ProjectID:  projectID,
		BayID:      bayID,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalHours: totalHours,
		Row:        row,
	}, nil
}

// HasDates reports whether the schedule has a usable date range
func (s *ManufacturingSchedule) HasDates() bool {
	return s.StartDate.IsSet() && s.EndDate.IsSet() && !s.StartDate.After(s.EndDate)
}

// DurationDays returns the inclusive number of days in the schedule
func (s *ManufacturingSchedule) DurationDays() int {
	return DaysInclusive(s.StartDate, s.EndDate)
}

// Overlaps reports whether the schedule shares a day with the inclusive range [start, end]
func (s *ManufacturingSchedule) Overlaps(start, end Date) bool {
	if !s.HasDates() {
		return false
	}
	return RangesOverlap(s.StartDate, s.EndDate, start, end)
}

// Contains reports whether d falls within the schedule's date range
func (s *ManufacturingSchedule) Contains(d Date) bool {
	return s.HasDates() && d.Within(s.StartDate, s.EndDate)
}

// HoursFor returns the schedule's own hours, or the project's when the
// schedule has none. A nil project yields zero.
func (s *ManufacturingSchedule) HoursFor(project *Project) decimal.Decimal {
	if s.TotalHours.Valid {
		return s.TotalHours.Decimal
	}
	if project == nil {
		return decimal.Zero
	}
	return project.TotalHours
}
