package entities

import (
	"slices"
	"time"
)

// Snapshot is an immutable, versioned view of all projects, bays and
// schedules. Calculations read from a snapshot and never modify it.
type Snapshot struct {
	Version   uint64
	TakenAt   time.Time
	Projects  []Project
	Bays      []ManufacturingBay
	Schedules []ManufacturingSchedule

	projectIndex map[ProjectID]int
	bayIndex     map[BayID]int
}

// NewSnapshot copies the given records into a new Snapshot
func NewSnapshot(
	version uint64,
	takenAt time.Time,
	projects []Project,
	bays []ManufacturingBay,
	schedules []ManufacturingSchedule,
) *Snapshot {
	s := &Snapshot{
		Version:      version,
		TakenAt:      takenAt,
		Projects:     slices.Clone(projects),
		Bays:         slices.Clone(bays),
		Schedules:    slices.Clone(schedules),
		projectIndex: make(map[ProjectID]int, len(projects)),
		bayIndex:     make(map[BayID]int, len(bays)),
	}
	for i, p := range s.Projects {
		s.projectIndex[p.ID] = i
	}
	for i, b := range s.Bays {
		s.bayIndex[b.ID] = i
	}
	return s
}

// Project returns the project with the given id, or nil
func (s *Snapshot) Project(id ProjectID) *Project {
	i, ok := s.projectIndex[id]
	if !ok {
		return nil
	}
	return &s.Projects[i]
}

// Bay returns the bay with the given id, or nil
func (s *Snapshot) Bay(id BayID) *ManufacturingBay {
	i, ok := s.bayIndex[id]
	if !ok {
		return nil
	}
	return &s.Bays[i]
}

// SchedulesForBay returns the schedules assigned to a bay
func (s *Snapshot) SchedulesForBay(id BayID) []ManufacturingSchedule {
	var result []ManufacturingSchedule
	for _, sched := range s.Schedules {
		if sched.BayID == id {
			result = append(result, sched)
		}
	}
	return result
}

// WithBays returns a snapshot sharing this snapshot's version, projects and
// schedules but restricted to the given bays
func (s *Snapshot) WithBays(bays []ManufacturingBay) *Snapshot {
	return NewSnapshot(s.Version, s.TakenAt, s.Projects, bays, s.Schedules)
}
