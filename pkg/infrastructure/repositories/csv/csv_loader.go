package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
)

// Scenario file names inside a scenario directory
const (
	ProjectsFile  = "projects.csv"
	BaysFile      = "bays.csv"
	SchedulesFile = "schedules.csv"
)

// Loader handles loading scenario data from CSV files. Columns are matched by
// header name; optional columns may be omitted or left empty. Dates that are
// empty or unparseable load as absent.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads projects.csv, bays.csv and schedules.csv from dir
func (l *Loader) LoadScenario(dir string) (*repositories.Dataset, error) {
	projects, err := l.LoadProjects(filepath.Join(dir, ProjectsFile))
	if err != nil {
		return nil, err
	}
	bays, err := l.LoadBays(filepath.Join(dir, BaysFile))
	if err != nil {
		return nil, err
	}
	schedules, err := l.LoadSchedules(filepath.Join(dir, SchedulesFile))
	if err != nil {
		return nil, err
	}

	dataset := &repositories.Dataset{Projects: projects, Bays: bays, Schedules: schedules}
	if err := dataset.CheckReferences(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", dir, err)
	}
	return dataset, nil
}

// LoadProjects loads projects from a CSV file.
//
// Required columns: id, name, total_hours. Optional: status, one
// <phase>_pct weight column per phase, and <milestone>_plan /
// <milestone>_actual date columns.
func (l *Loader) LoadProjects(filename string) ([]*entities.Project, error) {
	table, err := readTable(filename, "projects", []string{"id", "name", "total_hours"})
	if err != nil {
		return nil, err
	}

	var projects []*entities.Project
	for i, record := range table.rows {
		project, err := parseProject(table.row(record))
		if err != nil {
			return nil, fmt.Errorf("projects CSV row %d: %w", i+2, err)
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// LoadBays loads bays from a CSV file.
//
// Required columns: id, name, staff_count, hours_per_person_per_week. Optional: team.
func (l *Loader) LoadBays(filename string) ([]*entities.ManufacturingBay, error) {
	table, err := readTable(filename, "bays", []string{"id", "name", "staff_count", "hours_per_person_per_week"})
	if err != nil {
		return nil, err
	}

	var bays []*entities.ManufacturingBay
	for i, record := range table.rows {
		bay, err := parseBay(table.row(record))
		if err != nil {
			return nil, fmt.Errorf("bays CSV row %d: %w", i+2, err)
		}
		bays = append(bays, bay)
	}
	return bays, nil
}

// LoadSchedules loads schedules from a CSV file.
//
// Required columns: id, project_id, bay_id. Optional: start_date, end_date,
// total_hours, row.
func (l *Loader) LoadSchedules(filename string) ([]*entities.ManufacturingSchedule, error) {
	table, err := readTable(filename, "schedules", []string{"id", "project_id", "bay_id"})
	if err != nil {
		return nil, err
	}

	var schedules []*entities.ManufacturingSchedule
	for i, record := range table.rows {
		schedule, err := parseSchedule(table.row(record))
		if err != nil {
			return nil, fmt.Errorf("schedules CSV row %d: %w", i+2, err)
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// Helper functions for parsing CSV records

type table struct {
	columns map[string]int
	rows    [][]string
}

// row binds a record to the table's header
type row struct {
	columns map[string]int
	record  []string
}

func (t *table) row(record []string) row {
	return row{columns: t.columns, record: record}
}

// get returns the trimmed value of a column, or "" when the column is absent
func (r row) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func readTable(filename, kind string, required []string) (*table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%s CSV header missing column %q. Required: %v, Got: %v", kind, col, required, records[0])
		}
	}

	return &table{columns: columns, rows: records[1:]}, nil
}

func parseProject(r row) (*entities.Project, error) {
	totalHours, err := parseDecimal(r.get("total_hours"), "total_hours")
	if err != nil {
		return nil, err
	}

	status, err := entities.ParseProjectStatus(r.get("status"))
	if err != nil {
		return nil, err
	}

	weights := make(entities.PhaseWeights)
	for _, phase := range entities.AllPhases() {
		column := phase.String() + "_pct"
		value := r.get(column)
		if value == "" {
			continue
		}
		weight, err := parseDecimal(value, column)
		if err != nil {
			return nil, err
		}
		weights[phase] = weight
	}

	project, err := entities.NewProject(entities.ProjectID(r.get("id")), r.get("name"), totalHours, weights, status)
	if err != nil {
		return nil, err
	}

	for _, milestone := range entities.AllMilestones() {
		if d := entities.ParseOptionalDate(r.get(milestone.String() + "_plan")); d.IsSet() {
			project.PlanDates[milestone] = d
		}
		if d := entities.ParseOptionalDate(r.get(milestone.String() + "_actual")); d.IsSet() {
			project.ActualDates[milestone] = d
		}
	}
	return project, nil
}

func parseBay(r row) (*entities.ManufacturingBay, error) {
	staff, err := strconv.Atoi(r.get("staff_count"))
	if err != nil {
		return nil, fmt.Errorf("invalid staff_count: %s", r.get("staff_count"))
	}

	hours, err := parseDecimal(r.get("hours_per_person_per_week"), "hours_per_person_per_week")
	if err != nil {
		return nil, err
	}

	return entities.NewManufacturingBay(entities.BayID(r.get("id")), r.get("name"), r.get("team"), staff, hours)
}

func parseSchedule(r row) (*entities.ManufacturingSchedule, error) {
	totalHours := decimal.NullDecimal{}
	if value := r.get("total_hours"); value != "" {
		hours, err := parseDecimal(value, "total_hours")
		if err != nil {
			return nil, err
		}
		totalHours = decimal.NewNullDecimal(hours)
	}

	laneRow := 0
	if value := r.get("row"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid row: %s", value)
		}
		laneRow = max(n, 0)
	}

	return entities.NewManufacturingSchedule(
		entities.ScheduleID(r.get("id")),
		entities.ProjectID(r.get("project_id")),
		entities.BayID(r.get("bay_id")),
		entities.ParseOptionalDate(r.get("start_date")),
		entities.ParseOptionalDate(r.get("end_date")),
		totalHours,
		laneRow,
	)
}

func parseDecimal(value, column string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", column, value)
	}
	return d, nil
}
