// Package yaml loads a complete scenario from a single YAML document.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
)

// ScenarioFile is the file name looked up inside a scenario directory
const ScenarioFile = "scenario.yaml"

// scenarioDoc mirrors scenario.yaml. Numbers are read as strings so they
// keep their exact decimal value.
type scenarioDoc struct {
	Projects  []projectDoc  `yaml:"projects"`
	Bays      []bayDoc      `yaml:"bays"`
	Schedules []scheduleDoc `yaml:"schedules"`
}

type projectDoc struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	TotalHours   string            `yaml:"total_hours"`
	Status       string            `yaml:"status"`
	PhaseWeights map[string]string `yaml:"phase_weights"`
	PlanDates    map[string]string `yaml:"plan_dates"`
	ActualDates  map[string]string `yaml:"actual_dates"`
}

type bayDoc struct {
	ID                    string `yaml:"id"`
	Name                  string `yaml:"name"`
	Team                  string `yaml:"team"`
	StaffCount            int    `yaml:"staff_count"`
	HoursPerPersonPerWeek string `yaml:"hours_per_person_per_week"`
}

type scheduleDoc struct {
	ID         string `yaml:"id"`
	ProjectID  string `yaml:"project_id"`
	BayID      string `yaml:"bay_id"`
	StartDate  string `yaml:"start_date"`
	EndDate    string `yaml:"end_date"`
	TotalHours string `yaml:"total_hours"`
	Row        int    `yaml:"row"`
}

// Loader reads scenario.yaml documents
type Loader struct{}

// NewLoader creates a new YAML loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads scenario.yaml from dir
func (l *Loader) LoadScenario(dir string) (*repositories.Dataset, error) {
	return l.LoadFile(filepath.Join(dir, ScenarioFile))
}

// LoadFile loads a scenario document from path
func (l *Loader) LoadFile(path string) (*repositories.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	dataset, err := l.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return dataset, nil
}

// Decode parses a scenario document. Unknown keys are rejected.
func (l *Loader) Decode(r io.Reader) (*repositories.Dataset, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var doc scenarioDoc
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	dataset := &repositories.Dataset{}
	for i, p := range doc.Projects {
		project, err := p.toEntity()
		if err != nil {
			return nil, fmt.Errorf("projects[%d]: %w", i, err)
		}
		dataset.Projects = append(dataset.Projects, project)
	}
	for i, b := range doc.Bays {
		bay, err := b.toEntity()
		if err != nil {
			return nil, fmt.Errorf("bays[%d]: %w", i, err)
		}
		dataset.Bays = append(dataset.Bays, bay)
	}
	for i, s := range doc.Schedules {
		schedule, err := s.toEntity()
		if err != nil {
			return nil, fmt.Errorf("schedules[%d]: %w", i, err)
		}
		dataset.Schedules = append(dataset.Schedules, schedule)
	}

	if err := dataset.CheckReferences(); err != nil {
		return nil, err
	}
	return dataset, nil
}

func (p projectDoc) toEntity() (*entities.Project, error) {
	totalHours, err := parseDecimal(p.TotalHours, "total_hours")
	if err != nil {
		return nil, err
	}
	status, err := entities.ParseProjectStatus(p.Status)
	if err != nil {
		return nil, err
	}

	weights := make(entities.PhaseWeights, len(p.PhaseWeights))
	for name, value := range p.PhaseWeights {
		phase, err := entities.ParsePhase(name)
		if err != nil {
			return nil, err
		}
		weight, err := parseDecimal(value, "phase weight "+name)
		if err != nil {
			return nil, err
		}
		weights[phase] = weight
	}

	project, err := entities.NewProject(entities.ProjectID(p.ID), p.Name, totalHours, weights, status)
	if err != nil {
		return nil, err
	}
	if err := fillDates(project.PlanDates, p.PlanDates); err != nil {
		return nil, fmt.Errorf("plan_dates: %w", err)
	}
	if err := fillDates(project.ActualDates, p.ActualDates); err != nil {
		return nil, fmt.Errorf("actual_dates: %w", err)
	}
	return project, nil
}

// fillDates copies parseable dates; unparseable ones stay absent
func fillDates(dst entities.MilestoneDates, src map[string]string) error {
	for name, value := range src {
		milestone, err := entities.ParseMilestone(name)
		if err != nil {
			return err
		}
		if d := entities.ParseOptionalDate(value); d.IsSet() {
			dst[milestone] = d
		}
	}
	return nil
}

func (b bayDoc) toEntity() (*entities.ManufacturingBay, error) {
	hours, err := parseDecimal(b.HoursPerPersonPerWeek, "hours_per_person_per_week")
	if err != nil {
		return nil, err
	}
	return entities.NewManufacturingBay(entities.BayID(b.ID), b.Name, b.Team, b.StaffCount, hours)
}

func (s scheduleDoc) toEntity() (*entities.ManufacturingSchedule, error) {
	totalHours := decimal.NullDecimal{}
	if s.TotalHours != "" {
		hours, err := parseDecimal(s.TotalHours, "total_hours")
		if err != nil {
			return nil, err
		}
		totalHours = decimal.NewNullDecimal(hours)
	}

	return entities.NewManufacturingSchedule(
		entities.ScheduleID(s.ID),
		entities.ProjectID(s.ProjectID),
		entities.BayID(s.BayID),
		entities.ParseOptionalDate(s.StartDate),
		entities.ParseOptionalDate(s.EndDate),
		totalHours,
		max(s.Row, 0),
	)
}

func parseDecimal(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, value)
	}
	return d, nil
}
