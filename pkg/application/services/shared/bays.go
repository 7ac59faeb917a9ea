package shared

import (
	"slices"
	"strings"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// BayFilter drops bays belonging to teams that do not count towards
// production capacity (for example a library or staging team)
type BayFilter struct {
	excludedTeams []string
}

// NewBayFilter creates a filter excluding the given teams, compared case-insensitively
func NewBayFilter(excludedTeams []string) *BayFilter {
	teams := make([]string, 0, len(excludedTeams))
	for _, team := range excludedTeams {
		if t := strings.ToLower(strings.TrimSpace(team)); t != "" {
			teams = append(teams, t)
		}
	}
	return &BayFilter{excludedTeams: teams}
}

// Excludes reports whether a bay is filtered out
func (f *BayFilter) Excludes(bay entities.ManufacturingBay) bool {
	return slices.Contains(f.excludedTeams, strings.ToLower(strings.TrimSpace(bay.Team)))
}

// Apply returns the bays that are not excluded, preserving order
func (f *BayFilter) Apply(bays []entities.ManufacturingBay) []entities.ManufacturingBay {
	if len(f.excludedTeams) == 0 {
		return bays
	}
	kept := make([]entities.ManufacturingBay, 0, len(bays))
	for _, bay := range bays {
		if !f.Excludes(bay) {
			kept = append(kept, bay)
		}
	}
	return kept
}

// WeekStarts returns count consecutive week starts beginning at first
func WeekStarts(first entities.Date, count int) []entities.Date {
	if count <= 0 || !first.IsSet() {
		return nil
	}
	weeks := make([]entities.Date, count)
	for i := range weeks {
		weeks[i] = first.AddDays(7 * i)
	}
	return weeks
}

// MondaysInMonth returns the Mondays falling inside the month that starts at monthStart
func MondaysInMonth(monthStart entities.Date) []entities.Date {
	if !monthStart.IsSet() {
		return nil
	}
	first := monthStart.StartOfWeek()
	if first.Before(monthStart) {
		first = first.AddDays(7)
	}
	next := monthStart.AddMonths(1)

	var mondays []entities.Date
	for d := first; d.Before(next); d = d.AddDays(7) {
		mondays = append(mondays, d)
	}
	return mondays
}
