package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/infrastructure/repositories/memory"
)

// Scenario bundles the repositories of a test scenario
type Scenario struct {
	Projects  *memory.ProjectRepository
	Bays      *memory.BayRepository
	Schedules *memory.ScheduleRepository
}

// Source returns a snapshot source over the scenario repositories
func (s *Scenario) Source() *memory.SnapshotSource {
	return memory.NewSnapshotSource(s.Projects, s.Bays, s.Schedules)
}

// Date is shorthand for entities.NewDate
func Date(year int, month time.Month, day int) entities.Date {
	return entities.NewDate(year, month, day)
}

// Hours is shorthand for a whole number of hours
func Hours(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// mustCreateProject is a helper for tests - panics on validation error
func mustCreateProject(id, name string, totalHours int64, weights entities.PhaseWeights, status entities.ProjectStatus) *entities.Project {
	project, err := entities.NewProject(entities.ProjectID(id), name, Hours(totalHours), weights, status)
	if err != nil {
		panic(err)
	}
	return project
}

// mustCreateBay is a helper for tests - panics on validation error
func mustCreateBay(id, name, team string, staff int, hoursPerPerson int64) *entities.ManufacturingBay {
	bay, err := entities.NewManufacturingBay(entities.BayID(id), name, team, staff, Hours(hoursPerPerson))
	if err != nil {
		panic(err)
	}
	return bay
}

// mustCreateSchedule is a helper for tests - panics on validation error
func mustCreateSchedule(id, projectID, bayID string, start, end entities.Date, hours int64, row int) *entities.ManufacturingSchedule {
	total := decimal.NullDecimal{}
	if hours > 0 {
		total = decimal.NewNullDecimal(Hours(hours))
	}
	schedule, err := entities.NewManufacturingSchedule(
		entities.ScheduleID(id),
		entities.ProjectID(projectID),
		entities.BayID(bayID),
		start,
		end,
		total,
		row,
	)
	if err != nil {
		panic(err)
	}
	return schedule
}

// BuildBayScenario builds a small coach shop:
//
//   - BAY_A (2 staff × 40h = 80h/week) runs P200 for two weeks from 2025-01-06
//     with 140h, so both weeks sit at 87.5%, and P300 overlapping in row 1.
//   - BAY_B (3 × 40h = 120h/week) runs P100 for eight weeks.
//   - LIB belongs to the Library team and holds no schedules.
func BuildBayScenario() *Scenario {
	s := &Scenario{
		Projects:  memory.NewProjectRepository(3),
		Bays:      memory.NewBayRepository(3),
		Schedules: memory.NewScheduleRepository(3),
	}

	p100 := mustCreateProject("P100", "Coach 100", 1000, entities.PhaseWeights{
		entities.Fabrication: Hours(27),
		entities.Paint:       Hours(7),
		entities.Production:  Hours(60),
		entities.IT:          Hours(7),
		entities.NTC:         Hours(7),
		entities.QC:          Hours(7),
	}, entities.StatusActive)
	p100.PlanDates[entities.PaintStart] = Date(2025, 1, 20)
	p100.PlanDates[entities.ProductionStart] = Date(2025, 1, 27)
	p100.PlanDates[entities.Delivery] = Date(2025, 3, 7)
	p100.ActualDates[entities.PaintStart] = Date(2025, 1, 20)
	p100.ActualDates[entities.ProductionStart] = Date(2025, 2, 3)

	p200 := mustCreateProject("P200", "Coach 200", 140, entities.PhaseWeights{
		entities.Fabrication: Hours(20),
		entities.Paint:       Hours(10),
		entities.Production:  Hours(50),
		entities.IT:          Hours(10),
		entities.NTC:         Hours(5),
		entities.QC:          Hours(5),
	}, entities.StatusActive)
	p200.PlanDates[entities.Delivery] = Date(2025, 1, 24)
	p200.ActualDates[entities.Delivery] = Date(2025, 1, 21)

	p300 := mustCreateProject("P300", "Coach 300", 400, nil, entities.StatusPlanned)

	if err := s.Projects.LoadProjects([]*entities.Project{p100, p200, p300}); err != nil {
		panic(err)
	}

	if err := s.Bays.LoadBays([]*entities.ManufacturingBay{
		mustCreateBay("BAY_A", "Bay A", "Assembly", 2, 40),
		mustCreateBay("BAY_B", "Bay B", "Assembly", 3, 40),
		mustCreateBay("LIB", "Library", "Library", 1, 40),
	}); err != nil {
		panic(err)
	}

	if err := s.Schedules.LoadSchedules([]*entities.ManufacturingSchedule{
		mustCreateSchedule("S1", "P200", "BAY_A", Date(2025, 1, 6), Date(2025, 1, 19), 140, 0),
		mustCreateSchedule("S2", "P100", "BAY_B", Date(2025, 1, 6), Date(2025, 3, 2), 0, 0),
		mustCreateSchedule("S3", "P300", "BAY_A", Date(2025, 1, 13), Date(2025, 2, 9), 0, 1),
	}); err != nil {
		panic(err)
	}

	return s
}
