package entities

import (
	"fmt"
	"strings"
)

// Phase represents a manufacturing stage that consumes bay hours
type Phase int

const (
	Fabrication Phase = iota
	Paint
	Production
	IT
	NTC
	QC
)

// AllPhases returns the phases in execution order
func AllPhases() []Phase {
	return []Phase{Fabrication, Paint, Production, IT, NTC, QC}
}

// String method for Phase enum
func (p Phase) String() string {
	switch p {
	case Fabrication:
		return "fabrication"
	case Paint:
		return "paint"
	case Production:
		return "production"
	case IT:
		return "it"
	case NTC:
		return "ntc"
	case QC:
		return "qc"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePhase converts a phase name into a Phase
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fabrication", "fab":
		return Fabrication, nil
	case "paint":
		return Paint, nil
	case "production", "prod":
		return Production, nil
	case "it":
		return IT, nil
	case "ntc":
		return NTC, nil
	case "qc":
		return QC, nil
	default:
		return 0, fmt.Errorf("unknown phase %q", s)
	}
}

// Milestone identifies a dated point in a project's life
type Milestone int

const (
	FabricationStart Milestone = iota
	PaintStart
	ProductionStart
	ITStart
	NTCStart
	QCStart
	Delivery
)

// AllMilestones returns every milestone in chronological order
func AllMilestones() []Milestone {
	return []Milestone{FabricationStart, PaintStart, ProductionStart, ITStart, NTCStart, QCStart, Delivery}
}

// VarianceMilestones returns the milestones compared against the original plan
func VarianceMilestones() []Milestone {
	return []Milestone{PaintStart, ProductionStart, ITStart, Delivery}
}

// String method for Milestone enum
func (m Milestone) String() string {
	switch m {
	case FabricationStart:
		return "fabrication"
	case PaintStart:
		return "paint"
	case ProductionStart:
		return "production"
	case ITStart:
		return "it"
	case NTCStart:
		return "ntc"
	case QCStart:
		return "qc"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Milestone) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMilestone converts a milestone name into a Milestone
func ParseMilestone(s string) (Milestone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delivery", "ship":
		return Delivery, nil
	default:
		phase, err := ParsePhase(s)
		if err != nil {
			return 0, fmt.Errorf("unknown milestone %q", s)
		}
		return Milestone(phase), nil
	}
}

// ProjectStatus represents where a project is in its lifecycle
type ProjectStatus int

const (
	StatusPlanned ProjectStatus = iota
	StatusActive
	StatusOnHold
	StatusDelivered
	StatusCancelled
)

// String method for ProjectStatus enum
func (s ProjectStatus) String() string {
	switch s {
	case StatusPlanned:
		return "planned"
	case StatusActive:
		return "active"
	case StatusOnHold:
		return "on_hold"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s ProjectStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseProjectStatus converts a status name into a ProjectStatus. An empty
// status is treated as planned.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "planned", "planning":
		return StatusPlanned, nil
	case "active", "in_progress":
		return StatusActive, nil
	case "on_hold", "hold":
		return StatusOnHold, nil
	case "delivered", "completed", "complete":
		return StatusDelivered, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return 0, fmt.Errorf("unknown project status %q", s)
	}
}
