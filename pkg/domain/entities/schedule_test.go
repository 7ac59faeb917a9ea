package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestManufacturingSchedule_Validation(t *testing.T) {
	startDate := NewDate(2025, 1, 1)
	endDate := NewDate(2025, 1, 10)

	validSchedule, err := NewManufacturingSchedule(
		"S1",
		"P1",
		"BAY_A",
		startDate,
		endDate,
		decimal.NewNullDecimal(decimal.NewFromInt(100)),
		0,
	)
	require.NoError(t, err)
	require.Equal(t, 10, validSchedule.DurationDays())

	// Test validation failures
	testCases := []struct {
		name        string
		id          ScheduleID
		projectID   ProjectID
		bayID       BayID
		startDate   Date
		endDate     Date
		hours       decimal.NullDecimal
		row         int
		expectError string
	}{
		{"empty id", "", "P1", "BAY_A", startDate, endDate, decimal.NullDecimal{}, 0, "schedule id cannot be empty"},
		{"empty project", "S1", "", "BAY_A", startDate, endDate, decimal.NullDecimal{}, 0, "project id cannot be empty"},
		{"empty bay", "S1", "P1", "", startDate, endDate, decimal.NullDecimal{}, 0, "bay id cannot be empty"},
		{
			"start after end",
			"S1",
			"P1",
			"BAY_A",
			endDate,
			startDate,
			decimal.NullDecimal{},
			0,
			"start date 2025-01-10 cannot be after end date 2025-01-01",
		},
		{
			"negative hours",
			"S1",
			"P1",
			"BAY_A",
			startDate,
			endDate,
			decimal.NewNullDecimal(decimal.NewFromInt(-5)),
			0,
			"total hours cannot be negative, got -5",
		},
		{"negative row", "S1", "P1", "BAY_A", startDate, endDate, decimal.NullDecimal{}, -1, "row cannot be negative, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewManufacturingSchedule(tc.id, tc.projectID, tc.bayID, tc.startDate, tc.endDate, tc.hours, tc.row)
			require.EqualError(t, err, tc.expectError)
		})
	}
}

func TestManufacturingSchedule_HoursFor(t *testing.T) {
	project := &Project{ID: "P1", TotalHours: decimal.NewFromInt(400)}

	withHours := ManufacturingSchedule{TotalHours: decimal.NewNullDecimal(decimal.NewFromInt(140))}
	require.True(t, withHours.HoursFor(project).Equal(decimal.NewFromInt(140)))

	withoutHours := ManufacturingSchedule{}
	require.True(t, withoutHours.HoursFor(project).Equal(decimal.NewFromInt(400)))
	require.True(t, withoutHours.HoursFor(nil).IsZero())
}

func TestManufacturingSchedule_OverlapsAndContains(t *testing.T) {
	s := ManufacturingSchedule{StartDate: NewDate(2025, 1, 6), EndDate: NewDate(2025, 1, 19)}

	require.True(t, s.Overlaps(NewDate(2025, 1, 13), NewDate(2025, 1, 19)))
	require.True(t, s.Overlaps(NewDate(2025, 1, 19), NewDate(2025, 1, 25)))
	require.False(t, s.Overlaps(NewDate(2025, 1, 20), NewDate(2025, 1, 26)))
	require.True(t, s.Contains(NewDate(2025, 1, 6)))
	require.False(t, s.Contains(NewDate(2025, 1, 5)))

	undated := ManufacturingSchedule{StartDate: NewDate(2025, 1, 6)}
	require.False(t, undated.HasDates())
	require.False(t, undated.Overlaps(NewDate(2025, 1, 1), NewDate(2025, 12, 31)))
	require.Equal(t, 0, undated.DurationDays())
}
