package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/application/dto"
	"github.com/vsinha/bayplan/pkg/application/services/scheduling"
	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// Printer renders engine results as text tables or JSON
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter creates a printer for the given format
func NewPrinter(w io.Writer, format string) (*Printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported output format: %s (expected text or json)", format)
	}
	return &Printer{w: w, format: format}, nil
}

// Format returns the printer's output format
func (p *Printer) Format() string {
	return p.format
}

// Utilization prints weekly bay utilization
func (p *Printer) Utilization(weeks []entities.WeeklyUtilization) error {
	if p.format == FormatJSON {
		return p.json(weeks)
	}

	rows := make([][]string, 0, len(weeks))
	for _, u := range weeks {
		flag := ""
		if u.IsOvercommitted() {
			flag = "over"
		}
		rows = append(rows, []string{
			string(u.BayID),
			u.WeekStart.String(),
			u.ScheduledHours.StringFixed(1),
			u.Capacity.StringFixed(1),
			percent(u.UtilizationPercentage),
			strconv.Itoa(u.ProjectCount()),
			flag,
		})
	}
	return p.table("Weekly Utilization", []string{"Bay", "Week", "Hours", "Capacity", "Utilization", "Projects", ""}, rows)
}

// Forecast prints the monthly utilization forecast
func (p *Printer) Forecast(months []entities.ForecastMonth) error {
	if p.format == FormatJSON {
		return p.json(months)
	}

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		var busiest string
		best := decimal.NewFromInt(-1)
		for _, b := range m.PerBayUtilization {
			if b.Active && b.UtilizationPercentage.GreaterThan(best) {
				best = b.UtilizationPercentage
				busiest = fmt.Sprintf("%s (%s)", b.BayName, percent(b.UtilizationPercentage))
			}
		}
		rows = append(rows, []string{
			m.Month.Time().Format("2006-01"),
			strconv.Itoa(m.Weeks),
			strconv.Itoa(m.ActiveBays),
			percent(m.AverageUtilization),
			busiest,
		})
	}
	return p.table("Utilization Forecast", []string{"Month", "Weeks", "Active Bays", "Average", "Busiest"}, rows)
}

// Availability prints when each bay is next free
func (p *Printer) Availability(bays []entities.BayAvailability) error {
	if p.format == FormatJSON {
		return p.json(bays)
	}

	rows := make([][]string, 0, len(bays))
	for _, b := range bays {
		current := "-"
		if b.CurrentProject != nil {
			current = fmt.Sprintf("%s (%s)", b.CurrentProject.Name, b.CurrentProject.ProjectID)
		}
		rows = append(rows, []string{
			b.BayName,
			b.NextAvailableDate.String(),
			strconv.Itoa(b.DaysUntilFree),
			current,
		})
	}
	return p.table("Bay Availability", []string{"Bay", "Next Available", "Days", "Current Project"}, rows)
}

// Capacity prints the fixed-allowance capacity forecast
func (p *Printer) Capacity(weeks []entities.CapacityWeek) error {
	if p.format == FormatJSON {
		return p.json(weeks)
	}

	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		rows = append(rows, []string{
			w.WeekStart.String(),
			w.TotalCapacity.StringFixed(1),
			w.UsedCapacity.StringFixed(1),
			w.AvailableCapacity.StringFixed(1),
			percent(w.Utilization),
		})
	}
	return p.table("Capacity Forecast", []string{"Week", "Total", "Used", "Available", "Utilization"}, rows)
}

// Lanes prints lane layouts and any lane conflicts
func (p *Printer) Lanes(lanes []entities.BayLanes, conflicts []entities.LaneConflict) error {
	if p.format == FormatJSON {
		return p.json(struct {
			Lanes     []entities.BayLanes     `json:"lanes"`
			Conflicts []entities.LaneConflict `json:"conflicts"`
		}{lanes, conflicts})
	}

	rows := make([][]string, 0)
	for _, bay := range lanes {
		for _, a := range bay.Assignments {
			moved := ""
			if a.Moved() {
				moved = fmt.Sprintf("from %d", a.PreviousRow)
			}
			rows = append(rows, []string{
				string(bay.BayID),
				strconv.Itoa(bay.LaneCount),
				strconv.Itoa(bay.PeakConcurrency),
				string(a.ScheduleID),
				strconv.Itoa(a.Row),
				moved,
			})
		}
	}
	if err := p.table("Lanes", []string{"Bay", "Lanes", "Peak", "Schedule", "Row", "Moved"}, rows); err != nil {
		return err
	}

	if len(conflicts) == 0 {
		return nil
	}
	conflictRows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		conflictRows = append(conflictRows, []string{strconv.Itoa(c.Row), string(c.First), string(c.Second)})
	}
	return p.table("Lane Conflicts", []string{"Row", "First", "Second"}, conflictRows)
}

// Variance prints the plan-versus-actual report
func (p *Printer) Variance(report entities.VarianceReport) error {
	if p.format == FormatJSON {
		return p.json(report)
	}

	fmt.Fprintln(p.w, titleStyle.Render("Schedule Variance"))
	fmt.Fprintf(p.w, "On-time rate:   %s\n", percent(report.OnTimeRate))
	fmt.Fprintf(p.w, "Recovery rate:  %s (%d of %d projects)\n",
		percent(report.RecoveryRate), report.RecoveredProjects, report.ComparedProjects)
	fmt.Fprintf(p.w, "Average delay:  %s days\n\n", report.AverageDelayDays.StringFixed(1))

	rows := make([][]string, 0, len(report.PerPhaseBreakdown))
	for _, s := range report.PerPhaseBreakdown {
		rows = append(rows, []string{
			s.Milestone.String(),
			strconv.Itoa(s.Compared),
			strconv.Itoa(s.OnTime),
			strconv.Itoa(s.Delayed),
			strconv.Itoa(s.Recovered),
			percent(s.OnTimeRate),
			s.AverageDelayDays.StringFixed(1),
		})
	}
	return p.table("Per Milestone", []string{"Milestone", "Compared", "On Time", "Delayed", "Recovered", "On-time Rate", "Avg Delay"}, rows)
}

// ScheduleResult prints the outcome of a schedule command
func (p *Printer) ScheduleResult(kind scheduling.CommandKind, result scheduling.ScheduleResult) error {
	if p.format == FormatJSON {
		return p.json(result)
	}

	fmt.Fprintf(p.w, "%s schedule %s in bay %s, row %d\n", kind, result.ScheduleID, result.BayID, result.Row)
	if result.Reassigned {
		fmt.Fprintf(p.w, "requested row %d was taken; moved to row %d\n", result.RequestedRow, result.Row)
	}
	return nil
}

// Dashboard prints every section of a dashboard build
func (p *Printer) Dashboard(result *dto.DashboardResult) error {
	if p.format == FormatJSON {
		return p.json(result)
	}

	fmt.Fprintln(p.w, result.GetSummary())
	fmt.Fprintln(p.w)

	sections := []func() error{
		func() error { return p.Utilization(result.Utilization) },
		func() error { return p.Lanes(result.Lanes, result.Conflicts) },
		func() error { return p.Forecast(result.Forecast) },
		func() error { return p.Availability(result.Availability) },
		func() error { return p.Capacity(result.Capacity) },
		func() error { return p.Variance(result.Variance) },
	}
	for _, section := range sections {
		if err := section(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) json(v any) error {
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func (p *Printer) table(title string, headers []string, rows [][]string) error {
	fmt.Fprintln(p.w, titleStyle.Render(title))
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.w, "(none)")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintf(p.w, "%s\n\n", t.Render())
	return err
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
