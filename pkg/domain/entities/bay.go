package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BayID represents a unique manufacturing bay identifier
type BayID string

// ManufacturingBay represents a staffed bay with a finite weekly hour capacity
type ManufacturingBay struct {
	ID                    BayID
	Name                  string
	Team                  string
	StaffCount            int
	HoursPerPersonPerWeek decimal.Decimal
}

// NewManufacturingBay creates a validated ManufacturingBay
func NewManufacturingBay(id BayID, name, team string, staffCount int, hoursPerPerson decimal.Decimal) (*ManufacturingBay, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("bay id cannot be empty")
	}
	if staffCount < 0 {
		return nil, fmt.Errorf("staff count cannot be negative, got %d", staffCount)
	}
	if hoursPerPerson.IsNegative() {
		return nil, fmt.Errorf("hours per person cannot be negative, got %s", hoursPerPerson)
	}

	return &ManufacturingBay{
		ID:                    id,
		Name:                  name,
		Team:                  team,
		StaffCount:            staffCount,
		HoursPerPersonPerWeek: hoursPerPerson,
	}, nil
}

// WeeklyCapacity returns staff count times hours per person, never negative
func (b *ManufacturingBay) WeeklyCapacity() decimal.Decimal {
	if b.StaffCount <= 0 || !b.HoursPerPersonPerWeek.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(b.StaffCount)).Mul(b.HoursPerPersonPerWeek)
}

// DisplayName returns the bay name, falling back to its id
func (b *ManufacturingBay) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return string(b.ID)
}
