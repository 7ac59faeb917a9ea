package variance

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// VarianceTracker compares actual milestone dates against the original plan
type VarianceTracker struct {
	milestones []entities.Milestone
}

// NewVarianceTracker creates a tracker over the paint, production, IT and
// delivery milestones
func NewVarianceTracker() *VarianceTracker {
	return &VarianceTracker{milestones: entities.VarianceMilestones()}
}

// Compare returns the milestone comparisons for one project. A milestone is
// comparable only when both its actual and planned dates are known.
func (vt *VarianceTracker) Compare(project *entities.Project) entities.ProjectVariance {
	pv := entities.ProjectVariance{
		ProjectID: project.ID,
		Name:      project.DisplayName(),
		Phases:    make([]entities.PhaseVariance, 0, len(vt.milestones)),
	}

	for _, milestone := range vt.milestones {
		v := entities.PhaseVariance{
			ProjectID: project.ID,
			Milestone: milestone,
			Actual:    project.ActualDates.Get(milestone),
			Plan:      project.PlanDates.Get(milestone),
		}
		if v.Actual.IsSet() && v.Plan.IsSet() {
			diff := v.Actual.DaysSince(v.Plan)
			v.Comparable = true
			v.OnTime = diff <= 0
			v.Recovered = diff == 0
			v.VarianceDays = abs(diff)
		}
		pv.Phases = append(pv.Phases, v)
	}

	return pv
}

// Track builds the variance report for a set of projects. Rates are
// percentages; any rate or average with nothing to divide by is zero.
func (vt *VarianceTracker) Track(projects []entities.Project) entities.VarianceReport {
	report := entities.VarianceReport{
		OnTimeRate:        decimal.Zero,
		RecoveryRate:      decimal.Zero,
		AverageDelayDays:  decimal.Zero,
		PerPhaseBreakdown: make([]entities.PhaseVarianceSummary, 0, len(vt.milestones)),
		Projects:          make([]entities.ProjectVariance, 0, len(projects)),
	}

	tallies := make(map[entities.Milestone]*tally, len(vt.milestones))
	for _, m := range vt.milestones {
		tallies[m] = &tally{}
	}
	var overall tally

	for i := range projects {
		pv := vt.Compare(&projects[i])
		report.Projects = append(report.Projects, pv)

		if pv.HasComparable() {
			report.ComparedProjects++
		}
		if pv.HasRecovered() {
			report.RecoveredProjects++
		}

		for _, v := range pv.Phases {
			tallies[v.Milestone].add(v)
			overall.add(v)
		}
	}

	for _, m := range vt.milestones {
		t := tallies[m]
		report.PerPhaseBreakdown = append(report.PerPhaseBreakdown, entities.PhaseVarianceSummary{
			Milestone:        m,
			Compared:         t.compared,
			OnTime:           t.onTime,
			Delayed:          t.delayed,
			Recovered:        t.recovered,
			OnTimeRate:       rate(t.onTime, t.compared),
			AverageDelayDays: average(t.delayDays, t.delayed),
		})
	}

	report.OnTimeRate = rate(overall.onTime, overall.compared)
	report.AverageDelayDays = average(overall.delayDays, overall.delayed)
	report.RecoveryRate = rate(report.RecoveredProjects, report.ComparedProjects)

	return report
}

type tally struct {
	compared  int
	onTime    int
	delayed   int
	recovered int
	delayDays int
}

func (t *tally) add(v entities.PhaseVariance) {
	if !v.Comparable {
		return
	}
	t.compared++
	if v.OnTime {
		t.onTime++
	} else {
		t.delayed++
		t.delayDays += v.VarianceDays
	}
	if v.Recovered {
		t.recovered++
	}
}

func rate(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole)))
}

func average(sum, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count)))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
