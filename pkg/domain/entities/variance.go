package entities

import "github.com/shopspring/decimal"

// PhaseVariance compares one project milestone against its original plan
type PhaseVariance struct {
	ProjectID    ProjectID `json:"project_id"`
	Milestone    Milestone `json:"milestone"`
	Actual       Date      `json:"actual"`
	Plan         Date      `json:"plan"`
	Comparable   bool      `json:"comparable"`
	OnTime       bool      `json:"on_time"`
	VarianceDays int       `json:"variance_days"`
	Recovered    bool      `json:"recovered"`
}

// Delayed reports whether the milestone happened after its planned date
func (v PhaseVariance) Delayed() bool {
	return v.Comparable && !v.OnTime
}

// ProjectVariance holds all milestone comparisons for a project
type ProjectVariance struct {
	ProjectID ProjectID       `json:"project_id"`
	Name      string          `json:"name"`
	Phases    []PhaseVariance `json:"phases"`
}

// HasComparable reports whether any milestone has both an actual and a plan date
func (p ProjectVariance) HasComparable() bool {
	for _, v := range p.Phases {
		if v.Comparable {
			return true
		}
	}
	return false
}

// HasRecovered reports whether any comparable milestone matches its plan exactly
func (p ProjectVariance) HasRecovered() bool {
	for _, v := range p.Phases {
		if v.Comparable && v.Recovered {
			return true
		}
	}
	return false
}

// PhaseVarianceSummary aggregates comparisons for one milestone across projects
type PhaseVarianceSummary struct {
	Milestone        Milestone       `json:"milestone"`
	Compared         int             `json:"compared"`
	OnTime           int             `json:"on_time"`
	Delayed          int             `json:"delayed"`
	Recovered        int             `json:"recovered"`
	OnTimeRate       decimal.Decimal `json:"on_time_rate"`
	AverageDelayDays decimal.Decimal `json:"average_delay_days"`
}

// VarianceReport is the plan-versus-actual summary across a project set
type VarianceReport struct {
	OnTimeRate        decimal.Decimal        `json:"on_time_rate"`
	RecoveryRate      decimal.Decimal        `json:"recovery_rate"`
	AverageDelayDays  decimal.Decimal        `json:"average_delay_days"`
	ComparedProjects  int                    `json:"compared_projects"`
	RecoveredProjects int                    `json:"recovered_projects"`
	PerPhaseBreakdown []PhaseVarianceSummary `json:"per_phase_breakdown"`
	Projects          []ProjectVariance      `json:"projects"`
}
