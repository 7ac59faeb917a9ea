package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-06")
	require.NoError(t, err)
	require.Equal(t, NewDate(2025, 1, 6), d)

	d, err = ParseDate("2025-01-06T15:04:05Z")
	require.NoError(t, err)
	require.Equal(t, NewDate(2025, 1, 6), d)

	_, err = ParseDate("")
	require.EqualError(t, err, "date cannot be empty")

	_, err = ParseDate("06/01/2025")
	require.Error(t, err)

	require.False(t, ParseOptionalDate("not a date").IsSet())
	require.False(t, ParseOptionalDate("").IsSet())
}

func TestDate_Arithmetic(t *testing.T) {
	start := NewDate(2025, 1, 6)
	end := NewDate(2025, 1, 19)

	require.Equal(t, 13, end.DaysSince(start))
	require.Equal(t, 14, DaysInclusive(start, end))
	require.Equal(t, 0, DaysInclusive(end, start))
	require.Equal(t, 0, DaysInclusive(Date{}, end))
	require.Equal(t, 7, OverlapDays(start, end, NewDate(2025, 1, 6), NewDate(2025, 1, 12)))
	require.Equal(t, 0, OverlapDays(start, end, NewDate(2025, 1, 20), NewDate(2025, 1, 26)))
	require.Equal(t, NewDate(2025, 2, 2), NewDate(2025, 1, 31).AddDays(2))
}

func TestDate_StartOfWeekAndMonth(t *testing.T) {
	// 2025-01-08 is a Wednesday
	require.Equal(t, NewDate(2025, 1, 6), NewDate(2025, 1, 8).StartOfWeek())
	// Sunday belongs to the week that began the previous Monday
	require.Equal(t, NewDate(2025, 1, 6), NewDate(2025, 1, 12).StartOfWeek())
	require.Equal(t, NewDate(2025, 1, 6), NewDate(2025, 1, 6).StartOfWeek())

	require.Equal(t, NewDate(2025, 1, 1), NewDate(2025, 1, 31).StartOfMonth())
	require.Equal(t, NewDate(2025, 3, 1), NewDate(2025, 1, 31).AddMonths(2))
	require.Equal(t, NewDate(2026, 1, 1), NewDate(2025, 12, 15).AddMonths(1))
}

func TestDate_AbsentValues(t *testing.T) {
	var d Date
	require.False(t, d.IsSet())
	require.Equal(t, "TBD", d.String())
	require.False(t, d.AddDays(3).IsSet())
	require.Equal(t, d, DateOf(time.Time{}))
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	data, err := json.Marshal(wrapper{Start: NewDate(2025, 1, 6)})
	require.NoError(t, err)
	require.JSONEq(t, `{"start":"2025-01-06","end":""}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-02-03","end":""}`), &decoded))
	require.Equal(t, NewDate(2025, 2, 3), decoded.Start)
	require.False(t, decoded.End.IsSet())
}
