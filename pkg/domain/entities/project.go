package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProjectID represents a unique project identifier
type ProjectID string

// PhaseWeights holds the percentage share of a project's hours per phase.
// Weights are taken as entered and may not sum to 100.
type PhaseWeights map[Phase]decimal.Decimal

// Get returns the weight for a phase, zero when unset
func (w PhaseWeights) Get(p Phase) decimal.Decimal {
	if v, ok := w[p]; ok {
		return v
	}
	return decimal.Zero
}

// Total returns the sum of all positive weights
func (w PhaseWeights) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range AllPhases() {
		if v := w.Get(p); v.IsPositive() {
			total = total.Add(v)
		}
	}
	return total
}

// MilestoneDates maps milestones to their dates. Missing entries are absent dates.
type MilestoneDates map[Milestone]Date

// Get returns the date for a milestone, or an absent date
func (m MilestoneDates) Get(ms Milestone) Date {
	if m == nil {
		return Date{}
	}
	return m[ms]
}

// Project represents a customer project built in one or more bays
type Project struct {
	ID           ProjectID
	Name         string
	TotalHours   decimal.Decimal
	PhaseWeights PhaseWeights
	ActualDates  MilestoneDates
	PlanDates    MilestoneDates
	Status       ProjectStatus
}

// NewProject creates a validated Project
func NewProject(id ProjectID, name string, totalHours decimal.Decimal, weights PhaseWeights, status ProjectStatus) (*Project, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("project id cannot be empty")
	}
	if totalHours.IsNegative() {
		return nil, fmt.Errorf("total hours cannot be negative, got %s", totalHours)
	}
	for phase, weight := range weights {
		if weight.IsNegative() {
			return nil, fmt.Errorf("phase %s weight cannot be negative, got %s", phase, weight)
		}
	}
	if weights == nil {
		weights = PhaseWeights{}
	}

	return &Project{
		ID:           id,
		Name:         name,
		TotalHours:   totalHours,
		PhaseWeights: weights,
		ActualDates:  MilestoneDates{},
		PlanDates:    MilestoneDates{},
		Status:       status,
	}, nil
}

// DisplayName returns the project name, falling back to its id
func (p *Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return string(p.ID)
}
