package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestManufacturingBay_WeeklyCapacity(t *testing.T) {
	bay, err := NewManufacturingBay("BAY_A", "Bay A", "Assembly", 2, decimal.NewFromInt(40))
	require.NoError(t, err)
	require.True(t, bay.WeeklyCapacity().Equal(decimal.NewFromInt(80)))

	empty := ManufacturingBay{ID: "BAY_B", StaffCount: 0, HoursPerPersonPerWeek: decimal.NewFromInt(40)}
	require.True(t, empty.WeeklyCapacity().IsZero())

	negative := ManufacturingBay{ID: "BAY_C", StaffCount: 3, HoursPerPersonPerWeek: decimal.NewFromInt(-1)}
	require.True(t, negative.WeeklyCapacity().IsZero())
}

func TestManufacturingBay_Validation(t *testing.T) {
	_, err := NewManufacturingBay("", "Bay", "", 1, decimal.NewFromInt(40))
	require.EqualError(t, err, "bay id cannot be empty")

	_, err = NewManufacturingBay("BAY_A", "Bay", "", -1, decimal.NewFromInt(40))
	require.EqualError(t, err, "staff count cannot be negative, got -1")

	_, err = NewManufacturingBay("BAY_A", "Bay", "", 1, decimal.NewFromInt(-40))
	require.EqualError(t, err, "hours per person cannot be negative, got -40")
}

func TestProject_PhaseWeights(t *testing.T) {
	weights := PhaseWeights{
		Fabrication: decimal.NewFromInt(27),
		Paint:       decimal.NewFromInt(7),
		Production:  decimal.NewFromInt(60),
		IT:          decimal.NewFromInt(7),
		NTC:         decimal.NewFromInt(7),
		QC:          decimal.NewFromInt(7),
	}
	project, err := NewProject("P1", "Coach 1", decimal.NewFromInt(1000), weights, StatusActive)
	require.NoError(t, err)

	// Weights are kept as entered even though they sum past 100
	require.True(t, project.PhaseWeights.Total().Equal(decimal.NewFromInt(115)))
	require.True(t, PhaseWeights{}.Get(Paint).IsZero())

	_, err = NewProject("P2", "", decimal.NewFromInt(-1), nil, StatusPlanned)
	require.EqualError(t, err, "total hours cannot be negative, got -1")

	_, err = NewProject("P3", "", decimal.NewFromInt(1), PhaseWeights{QC: decimal.NewFromInt(-3)}, StatusPlanned)
	require.EqualError(t, err, "phase qc weight cannot be negative, got -3")
}

func TestParseEnums(t *testing.T) {
	phase, err := ParsePhase("Production")
	require.NoError(t, err)
	require.Equal(t, Production, phase)

	milestone, err := ParseMilestone("delivery")
	require.NoError(t, err)
	require.Equal(t, Delivery, milestone)

	milestone, err = ParseMilestone("it")
	require.NoError(t, err)
	require.Equal(t, ITStart, milestone)

	status, err := ParseProjectStatus("")
	require.NoError(t, err)
	require.Equal(t, StatusPlanned, status)

	_, err = ParseProjectStatus("lost")
	require.EqualError(t, err, `unknown project status "lost"`)
}
