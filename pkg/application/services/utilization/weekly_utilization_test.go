package utilization

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

func hrs(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func twoPersonBay(id entities.BayID) entities.ManufacturingBay {
	return entities.ManufacturingBay{ID: id, Name: string(id), StaffCount: 2, HoursPerPersonPerWeek: hrs(40)}
}

func coachProject() entities.Project {
	return entities.Project{
		ID:         "P1",
		Name:       "Coach 1",
		TotalHours: hrs(1000),
		PhaseWeights: entities.PhaseWeights{
			entities.Fabrication: hrs(20),
			entities.Paint:       hrs(10),
			entities.Production:  hrs(50),
			entities.IT:          hrs(10),
			entities.NTC:         hrs(5),
			entities.QC:          hrs(5),
		},
	}
}

func twoWeekSchedule(id entities.ScheduleID, bay entities.BayID, hours int64) entities.ManufacturingSchedule {
	return entities.ManufacturingSchedule{
		ID:         id,
		ProjectID:  "P1",
		BayID:      bay,
		StartDate:  entities.NewDate(2025, 1, 6),
		EndDate:    entities.NewDate(2025, 1, 19),
		TotalHours: decimal.NewNullDecimal(hrs(hours)),
	}
}

func TestCalculate_TwoWeekScenario(t *testing.T) {
	calc := NewWeeklyUtilizationCalculator(nil)

	result := calc.Calculate(
		[]entities.ManufacturingSchedule{twoWeekSchedule("S1", "BAY_A", 140)},
		[]entities.Project{coachProject()},
		[]entities.ManufacturingBay{twoPersonBay("BAY_A")},
		entities.NewDate(2025, 1, 6),
		2,
	)

	require.Len(t, result, 2)
	for _, week := range result {
		require.True(t, week.ScheduledHours.Equal(hrs(70)), "week %s got %s hours", week.WeekStart, week.ScheduledHours)
		require.True(t, week.Capacity.Equal(hrs(80)))
		require.True(t, week.UtilizationPercentage.Equal(decimal.RequireFromString("87.5")))
		require.Equal(t, 1, week.ProjectCount())
		require.False(t, week.IsOvercommitted())
	}

	require.Equal(t, entities.NewDate(2025, 1, 12), result[0].WeekEnd)
	// Fabrication, paint and the first part of production fall in week one
	require.Len(t, result[0].AlignedPhases, 3)
	// Production carries over into week two with IT, NTC and QC
	require.Len(t, result[1].AlignedPhases, 4)
}

func TestCalculate_NoOverlap(t *testing.T) {
	calc := NewWeeklyUtilizationCalculator(nil)
	schedule := twoWeekSchedule("S1", "BAY_A", 140)
	schedule.StartDate = entities.NewDate(2025, 2, 3)
	schedule.EndDate = entities.NewDate(2025, 2, 16)

	result := calc.Calculate(
		[]entities.ManufacturingSchedule{schedule},
		[]entities.Project{coachProject()},
		[]entities.ManufacturingBay{twoPersonBay("BAY_A")},
		entities.NewDate(2025, 1, 6),
		1,
	)

	require.Len(t, result, 1)
	require.True(t, result[0].ScheduledHours.IsZero())
	require.True(t, result[0].UtilizationPercentage.IsZero())
	require.Empty(t, result[0].AlignedPhases)
	require.Zero(t, result[0].ProjectCount())
}

func TestCalculate_Overcommitment(t *testing.T) {
	calc := NewWeeklyUtilizationCalculator(nil)
	schedules := []entities.ManufacturingSchedule{
		twoWeekSchedule("S1", "BAY_A", 140),
		twoWeekSchedule("S2", "BAY_A", 140),
	}

	result := calc.Calculate(schedules, []entities.Project{coachProject()},
		[]entities.ManufacturingBay{twoPersonBay("BAY_A")}, entities.NewDate(2025, 1, 6), 1)

	require.Len(t, result, 1)
	require.True(t, result[0].UtilizationPercentage.Equal(hrs(175)), "utilization is not clamped")
	require.True(t, result[0].IsOvercommitted())
}

func TestCalculate_ZeroCapacity(t *testing.T) {
	calc := NewWeeklyUtilizationCalculator(nil)
	bay := twoPersonBay("BAY_A")
	bay.StaffCount = 0

	result := calc.Calculate(
		[]entities.ManufacturingSchedule{twoWeekSchedule("S1", "BAY_A", 140)},
		[]entities.Project{coachProject()},
		[]entities.ManufacturingBay{bay},
		entities.NewDate(2025, 1, 6),
		1,
	)

	require.True(t, result[0].ScheduledHours.Equal(hrs(70)))
	require.True(t, result[0].UtilizationPercentage.IsZero())
}

func TestCalculate_OrderingAndFiltering(t *testing.T) {
	calc := NewWeeklyUtilizationCalculator(nil)
	schedules := []entities.ManufacturingSchedule{
		twoWeekSchedule("S1", "BAY_B", 140),
		twoWeekSchedule("S2", "UNKNOWN", 999),
		{ID: "S3", ProjectID: "P1", BayID: "BAY_A"},
	}
	bays := []entities.ManufacturingBay{twoPersonBay("BAY_B"), twoPersonBay("BAY_A")}

	result := calc.Calculate(schedules, []entities.Project{coachProject()}, bays, entities.NewDate(2025, 1, 6), 2)

	require.Len(t, result, 4)
	require.Equal(t, entities.BayID("BAY_B"), result[0].BayID)
	require.Equal(t, entities.NewDate(2025, 1, 6), result[0].WeekStart)
	require.Equal(t, entities.BayID("BAY_B"), result[1].BayID)
	require.Equal(t, entities.NewDate(2025, 1, 13), result[1].WeekStart)
	require.Equal(t, entities.BayID("BAY_A"), result[2].BayID)
	require.True(t, result[2].ScheduledHours.IsZero(), "undated schedules are excluded")

	require.Empty(t, calc.Calculate(schedules, nil, bays, entities.NewDate(2025, 1, 6), 0))
	require.Empty(t, calc.Calculate(schedules, nil, bays, entities.Date{}, 2))
}

func TestCalculate_FallbackHoursAndWeights(t *testing.T) {
	calc := NewWeeklyUtilizationCalculator(nil)
	project := entities.Project{ID: "P1", TotalHours: hrs(140)}
	schedule := twoWeekSchedule("S1", "BAY_A", 0)
	schedule.TotalHours = decimal.NullDecimal{}

	result := calc.Calculate(
		[]entities.ManufacturingSchedule{schedule},
		[]entities.Project{project},
		[]entities.ManufacturingBay{twoPersonBay("BAY_A")},
		entities.NewDate(2025, 1, 13),
		1,
	)

	require.True(t, result[0].ScheduledHours.Equal(hrs(70)))
	require.Len(t, result[0].AlignedPhases, 1)
	require.Equal(t, entities.Production, result[0].AlignedPhases[0].Phase)
}

func TestPercentage(t *testing.T) {
	require.True(t, Percentage(hrs(40), hrs(80)).Equal(hrs(50)))
	require.True(t, Percentage(hrs(40), decimal.Zero).IsZero())
	require.True(t, Percentage(hrs(40), hrs(-5)).IsZero())
}
