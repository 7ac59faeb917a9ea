package entities

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire layout for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. The zero value means the
// date is absent.
type Date struct {
	t time.Time
}

// NewDate creates a Date for the given calendar day
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD date. RFC3339 timestamps are accepted and
// truncated to their calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("date cannot be empty")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return DateOf(t), nil
}

// ParseOptionalDate parses s and treats empty or unparseable input as absent
func ParseOptionalDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		return Date{}
	}
	return d
}

// IsSet reports whether the date is present
func (d Date) IsSet() bool {
	return !d.t.IsZero()
}

// Time returns the date as a UTC midnight timestamp
func (d Date) Time() time.Time {
	return d.t
}

// AddDays returns the date n days later (or earlier when n is negative)
func (d Date) AddDays(n int) Date {
	if !d.IsSet() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns the number of whole days from other to d
func (d Date) DaysSince(other Date) int {
	return int(d.t.Sub(other.t).Hours() / 24)
}

// Before reports whether d is strictly before other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same calendar day
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or 1 depending on whether d is before, equal to or after other
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

// StartOfWeek returns the Monday of d's week
func (d Date) StartOfWeek() Date {
	if !d.IsSet() {
		return d
	}
	offset := (int(d.t.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// StartOfMonth returns the first day of d's month
func (d Date) StartOfMonth() Date {
	if !d.IsSet() {
		return d
	}
	return NewDate(d.t.Year(), d.t.Month(), 1)
}

// AddMonths returns the first day of the month n months after d's month
func (d Date) AddMonths(n int) Date {
	if !d.IsSet() {
		return d
	}
	return Date{t: d.StartOfMonth().t.AddDate(0, n, 0)}
}

// Within reports whether d falls in the inclusive range [start, end]
func (d Date) Within(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// String formats the date as YYYY-MM-DD, or "TBD" when absent
func (d Date) String() string {
	if !d.IsSet() {
		return "TBD"
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler. Absent dates encode as an empty string.
func (d Date) MarshalText() ([]byte, error) {
	if !d.IsSet() {
		return []byte{}, nil
	}
	return []byte(d.t.Format(DateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInclusive returns the number of calendar days in [start, end], or 0 when
// either bound is absent or end precedes start
func DaysInclusive(start, end Date) int {
	if !start.IsSet() || !end.IsSet() || end.Before(start) {
		return 0
	}
	return end.DaysSince(start) + 1
}

// OverlapDays returns the number of calendar days shared by the inclusive
// ranges [aStart, aEnd] and [bStart, bEnd]
func OverlapDays(aStart, aEnd, bStart, bEnd Date) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return DaysInclusive(start, end)
}

// RangesOverlap reports whether two inclusive date ranges share at least one day
func RangesOverlap(aStart, aEnd, bStart, bEnd Date) bool {
	return OverlapDays(aStart, aEnd, bStart, bEnd) > 0
}
