package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bayplan/pkg/application/services/scheduling"
	"github.com/vsinha/bayplan/pkg/domain/entities"
)

func TestNewPrinter_Formats(t *testing.T) {
	p, err := NewPrinter(new(bytes.Buffer), "")
	require.NoError(t, err)
	require.Equal(t, FormatText, p.Format())

	p, err = NewPrinter(new(bytes.Buffer), " JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, p.Format())

	_, err = NewPrinter(new(bytes.Buffer), "csv")
	require.ErrorContains(t, err, "unsupported output format: csv")
}

func TestPrinter_UtilizationText(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatText)
	require.NoError(t, err)

	week := entities.NewDate(2025, time.January, 6)
	require.NoError(t, p.Utilization([]entities.WeeklyUtilization{{
		BayID:                 "BAY_A",
		WeekStart:             week,
		WeekEnd:               week.AddDays(6),
		ScheduledHours:        decimal.NewFromInt(90),
		Capacity:              decimal.NewFromInt(80),
		UtilizationPercentage: decimal.RequireFromString("112.5"),
	}}))

	out := buf.String()
	require.Contains(t, out, "Weekly Utilization")
	require.Contains(t, out, "BAY_A")
	require.Contains(t, out, "2025-01-06")
	require.Contains(t, out, "112.5%")
	require.Contains(t, out, "over")
}

func TestPrinter_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatText)
	require.NoError(t, err)

	require.NoError(t, p.Capacity(nil))
	require.Contains(t, buf.String(), "(none)")
}

func TestPrinter_LanesShowsMovesAndConflicts(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, FormatText)
	require.NoError(t, err)

	lanes := []entities.BayLanes{{
		BayID:           "BAY_A",
		LaneCount:       2,
		PeakConcurrency: 2,
		Assignments: []entities.LaneAssignment{
			{ScheduleID: "S1", BayID: "BAY_A", Row: 0, PreviousRow: 0},
			{ScheduleID: "S3", BayID: "BAY_A", Row: 1, PreviousRow: 0},
		},
	}}
	conflicts := []entities.LaneConflict{{Row: 0, First: "S1", Second: "S3"}}
	require.NoError(t, p.Lanes(lanes, conflicts))

	out := buf.String()
	require.Contains(t, out, "from 0")
	require.Contains(t, out, "Lane Conflicts")
}

func TestPrinter_ScheduleResult(t *testing.T) {
	result := scheduling.ScheduleResult{ScheduleID: "S9", BayID: "BAY_A", Row: 2, RequestedRow: 0, Reassigned: true}

	var text bytes.Buffer
	p, err := NewPrinter(&text, FormatText)
	require.NoError(t, err)
	require.NoError(t, p.ScheduleResult(scheduling.Create, result))
	require.Contains(t, text.String(), "create schedule S9 in bay BAY_A, row 2")
	require.Contains(t, text.String(), "requested row 0 was taken; moved to row 2")

	var js bytes.Buffer
	p, err = NewPrinter(&js, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, p.ScheduleResult(scheduling.Create, result))

	var decoded scheduling.ScheduleResult
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	require.Equal(t, result, decoded)
}
