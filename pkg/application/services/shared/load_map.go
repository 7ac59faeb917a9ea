package shared

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// LoadContext holds the hours booked against one bay in one week
type LoadContext struct {
	Hours         decimal.Decimal
	AlignedPhases []entities.PhaseWindow
}

// ProjectCount returns the number of distinct projects contributing to the load
func (lc *LoadContext) ProjectCount() int {
	seen := make(map[entities.ProjectID]bool, len(lc.AlignedPhases))
	for _, w := range lc.AlignedPhases {
		seen[w.ProjectID] = true
	}
	return len(seen)
}

// LoadMap accumulates phase-window hours by bay and week
type LoadMap map[string]*LoadContext

// NewLoadMap creates a new empty load map
func NewLoadMap() LoadMap {
	return make(LoadMap)
}

// Add books hours from a phase window against a bay and week
func (lm LoadMap) Add(bayID entities.BayID, weekStart entities.Date, window entities.PhaseWindow, hours decimal.Decimal) {
	key := lm.makeKey(bayID, weekStart)
	lc, ok := lm[key]
	if !ok {
		lc = &LoadContext{Hours: decimal.Zero}
		lm[key] = lc
	}
	lc.Hours = lc.Hours.Add(hours)
	lc.AlignedPhases = append(lc.AlignedPhases, window)
}

// Get retrieves the load for a bay and week, or nil when nothing is booked
func (lm LoadMap) Get(bayID entities.BayID, weekStart entities.Date) *LoadContext {
	return lm[lm.makeKey(bayID, weekStart)]
}

// Has checks if any load is booked for a bay and week
func (lm LoadMap) Has(bayID entities.BayID, weekStart entities.Date) bool {
	_, exists := lm[lm.makeKey(bayID, weekStart)]
	return exists
}

// HoursFor returns the booked hours for a bay and week, zero when none
func (lm LoadMap) HoursFor(bayID entities.BayID, weekStart entities.Date) decimal.Decimal {
	if lc := lm.Get(bayID, weekStart); lc != nil {
		return lc.Hours
	}
	return decimal.Zero
}

// Size returns the number of bay-week entries stored
func (lm LoadMap) Size() int {
	return len(lm)
}

// Bays returns the bays that have any booked load
func (lm LoadMap) Bays() []entities.BayID {
	seen := make(map[entities.BayID]bool)
	var bays []entities.BayID
	for key := range lm {
		if bayID, _, found := lm.parseKey(key); found && !seen[bayID] {
			seen[bayID] = true
			bays = append(bays, bayID)
		}
	}
	return bays
}

// TotalHours returns the hours booked across all bays and weeks
func (lm LoadMap) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, lc := range lm {
		total = total.Add(lc.Hours)
	}
	return total
}

// makeKey creates a consistent key for bay and week ("bay|YYYY-MM-DD")
func (lm LoadMap) makeKey(bayID entities.BayID, weekStart entities.Date) string {
	return fmt.Sprintf("%s|%s", bayID, weekStart)
}

func (lm LoadMap) parseKey(key string) (entities.BayID, string, bool) {
	i := strings.LastIndexByte(key, '|')
	if i < 0 {
		return "", "", false
	}
	return entities.BayID(key[:i]), key[i+1:], true
}

// String returns a string representation of the load map for debugging
func (lm LoadMap) String() string {
	if len(lm) == 0 {
		return "LoadMap{empty}"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LoadMap{%d entries:\n", len(lm))
	for key, lc := range lm {
		if bayID, week, found := lm.parseKey(key); found {
			fmt.Fprintf(&b, "  %s@%s: hours=%s, phases=%d\n", bayID, week, lc.Hours.StringFixed(2), len(lc.AlignedPhases))
		}
	}
	b.WriteString("}")
	return b.String()
}
