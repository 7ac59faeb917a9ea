package entities

import "github.com/shopspring/decimal"

// PhaseWindow describes how part of a schedule's hours are spread over time
// for one phase. Offsets are continuous day offsets from the schedule start,
// so a window may begin or end part way through a calendar day.
type PhaseWindow struct {
	ScheduleID  ScheduleID      `json:"schedule_id"`
	ProjectID   ProjectID       `json:"project_id"`
	BayID       BayID           `json:"bay_id"`
	Phase       Phase           `json:"phase"`
	WindowStart Date            `json:"window_start"`
	WindowEnd   Date            `json:"window_end"`
	StartOffset decimal.Decimal `json:"start_offset"`
	EndOffset   decimal.Decimal `json:"end_offset"`
	Hours       decimal.Decimal `json:"hours"`
}

// DurationDays returns the length of the window in days
func (w PhaseWindow) DurationDays() decimal.Decimal {
	return w.EndOffset.Sub(w.StartOffset)
}

// OverlapDays returns how many days of the window fall inside [from, to),
// both expressed as offsets from the schedule start
func (w PhaseWindow) OverlapDays(from, to decimal.Decimal) decimal.Decimal {
	start := decimal.Max(w.StartOffset, from)
	end := decimal.Min(w.EndOffset, to)
	if !end.GreaterThan(start) {
		return decimal.Zero
	}
	return end.Sub(start)
}

// HoursWithin returns the window's hours prorated to the part that falls
// inside [from, to)
func (w PhaseWindow) HoursWithin(from, to decimal.Decimal) decimal.Decimal {
	duration := w.DurationDays()
	if !duration.IsPositive() {
		return decimal.Zero
	}
	overlap := w.OverlapDays(from, to)
	if overlap.IsZero() {
		return decimal.Zero
	}
	return w.Hours.Mul(overlap).Div(duration)
}
