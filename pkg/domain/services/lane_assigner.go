package services

import (
	"cmp"
	"slices"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// LaneAssigner lays out the schedules of one bay in rows so that no two
// schedules sharing a row overlap in time
type LaneAssigner struct{}

// NewLaneAssigner creates a new lane assigner
func NewLaneAssigner() *LaneAssigner {
	return &LaneAssigner{}
}

// AssignLanes recomputes every lane for the given schedules with greedy
// interval partitioning. Schedules are taken in start order and each goes to
// the first lane whose last schedule ended strictly before it starts, opening
// a new lane otherwise. The number of lanes used equals the peak number of
// simultaneously active schedules. Schedules without dates go to row 0.
func (a *LaneAssigner) AssignLanes(schedules []entities.ManufacturingSchedule) []entities.LaneAssignment {
	dated, undated := splitByDates(schedules)
	slices.SortStableFunc(dated, compareByStart)

	assignments := make([]entities.LaneAssignment, 0, len(schedules))
	var laneEnds []entities.Date

	for _, s := range dated {
		lane := -1
		for i, end := range laneEnds {
			if end.Before(s.StartDate) {
				lane = i
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, s.EndDate)
		} else {
			laneEnds[lane] = s.EndDate
		}

		assignments = append(assignments, entities.LaneAssignment{
			ScheduleID:  s.ID,
			BayID:       s.BayID,
			Row:         lane,
			PreviousRow: s.Row,
		})
	}

	for _, s := range undated {
		assignments = append(assignments, entities.LaneAssignment{
			ScheduleID:  s.ID,
			BayID:       s.BayID,
			Row:         0,
			PreviousRow: s.Row,
		})
	}

	return assignments
}

// Place chooses a row for candidate among the existing schedules of its bay.
// The candidate's own row is kept when nothing in that row overlaps it;
// otherwise the candidate silently moves to the lowest free row. Any existing
// schedule with the candidate's id is ignored, so moves and resizes can pass
// the bay's full schedule list.
func (a *LaneAssigner) Place(
	existing []entities.ManufacturingSchedule,
	candidate entities.ManufacturingSchedule,
) entities.LanePlacement {
	requested := candidate.Row
	if requested < 0 {
		requested = 0
	}
	placement := entities.LanePlacement{Row: requested, RequestedRow: candidate.Row}

	if !candidate.HasDates() {
		return placement
	}

	others := make([]entities.ManufacturingSchedule, 0, len(existing))
	for _, s := range existing {
		if s.ID != candidate.ID && s.BayID == candidate.BayID {
			others = append(others, s)
		}
	}

	if a.rowFree(others, requested, candidate) {
		return placement
	}

	for row := 0; ; row++ {
		if a.rowFree(others, row, candidate) {
			placement.Row = row
			placement.Reassigned = true
			return placement
		}
	}
}

// rowFree reports whether no schedule in row overlaps candidate
func (a *LaneAssigner) rowFree(
	schedules []entities.ManufacturingSchedule,
	row int,
	candidate entities.ManufacturingSchedule,
) bool {
	for _, s := range schedules {
		if s.Row == row && s.Overlaps(candidate.StartDate, candidate.EndDate) {
			return false
		}
	}
	return true
}

// Conflicts returns every pair of schedules that share a row and overlap
func (a *LaneAssigner) Conflicts(schedules []entities.ManufacturingSchedule) []entities.LaneConflict {
	byRow := make(map[int][]entities.ManufacturingSchedule)
	var rows []int
	for _, s := range schedules {
		if !s.HasDates() {
			continue
		}
		if _, ok := byRow[s.Row]; !ok {
			rows = append(rows, s.Row)
		}
		byRow[s.Row] = append(byRow[s.Row], s)
	}
	slices.Sort(rows)

	var conflicts []entities.LaneConflict
	for _, row := range rows {
		group := byRow[row]
		slices.SortStableFunc(group, compareByStart)
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[j].StartDate.After(group[i].EndDate) {
					break
				}
				conflicts = append(conflicts, entities.LaneConflict{
					Row:    row,
					First:  group[i].ID,
					Second: group[j].ID,
				})
			}
		}
	}
	return conflicts
}

// PeakConcurrency returns the largest number of schedules active on any single day
func (a *LaneAssigner) PeakConcurrency(schedules []entities.ManufacturingSchedule) int {
	type event struct {
		day   entities.Date
		delta int
	}

	events := make([]event, 0, len(schedules)*2)
	for _, s := range schedules {
		if !s.HasDates() {
			continue
		}
		events = append(events,
			event{day: s.StartDate, delta: 1},
			event{day: s.EndDate.AddDays(1), delta: -1},
		)
	}

	// Departures sort before arrivals on the same day since end dates are inclusive
	slices.SortFunc(events, func(x, y event) int {
		if c := x.day.Compare(y.day); c != 0 {
			return c
		}
		return cmp.Compare(x.delta, y.delta)
	})

	peak, active := 0, 0
	for _, e := range events {
		active += e.delta
		peak = max(peak, active)
	}
	return peak
}

// LaneCount returns the number of rows used by a set of assignments
func LaneCount(assignments []entities.LaneAssignment) int {
	count := 0
	for _, a := range assignments {
		count = max(count, a.Row+1)
	}
	return count
}

func splitByDates(schedules []entities.ManufacturingSchedule) (dated, undated []entities.ManufacturingSchedule) {
	for _, s := range schedules {
		if s.HasDates() {
			dated = append(dated, s)
		} else {
			undated = append(undated, s)
		}
	}
	return dated, undated
}

func compareByStart(x, y entities.ManufacturingSchedule) int {
	if c := x.StartDate.Compare(y.StartDate); c != 0 {
		return c
	}
	if c := x.EndDate.Compare(y.EndDate); c != 0 {
		return c
	}
	return cmp.Compare(x.ID, y.ID)
}
