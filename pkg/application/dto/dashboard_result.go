package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// DashboardParams selects the horizon of a dashboard build. Zero values fall
// back to the orchestrator defaults; an unset Now means today.
type DashboardParams struct {
	Now              entities.Date `json:"now"`
	UtilizationWeeks int           `json:"utilization_weeks"`
	HorizonMonths    int           `json:"horizon_months"`
	CapacityWeeks    int           `json:"capacity_weeks"`
}

// DashboardResult contains every engine output computed from one snapshot.
// Results are shared between callers and must not be modified.
type DashboardResult struct {
	SnapshotVersion uint64                       `json:"snapshot_version"`
	GeneratedAt     time.Time                    `json:"generated_at"`
	Params          DashboardParams              `json:"params"`
	Utilization     []entities.WeeklyUtilization `json:"utilization"`
	Lanes           []entities.BayLanes          `json:"lanes"`
	Conflicts       []entities.LaneConflict      `json:"conflicts"`
	Forecast        []entities.ForecastMonth     `json:"forecast"`
	Availability    []entities.BayAvailability   `json:"availability"`
	Capacity        []entities.CapacityWeek      `json:"capacity"`
	Variance        entities.VarianceReport      `json:"variance"`
}

// OvercommittedWeeks returns the bay weeks scheduled beyond capacity
func (r *DashboardResult) OvercommittedWeeks() []entities.WeeklyUtilization {
	var over []entities.WeeklyUtilization
	for _, u := range r.Utilization {
		if u.IsOvercommitted() {
			over = append(over, u)
		}
	}
	return over
}

// GetSummary returns a short human readable summary of the dashboard
func (r *DashboardResult) GetSummary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dashboard Summary (snapshot v%d, as of %s):\n", r.SnapshotVersion, r.Params.Now)
	fmt.Fprintf(&sb, "  Utilization: %d bay weeks, %d overcommitted\n", len(r.Utilization), len(r.OvercommittedWeeks()))
	fmt.Fprintf(&sb, "  Lanes: %d bays, %d conflicts\n", len(r.Lanes), len(r.Conflicts))
	fmt.Fprintf(&sb, "  Forecast: %d months\n", len(r.Forecast))
	fmt.Fprintf(&sb, "  Variance: on-time %s%%, recovery %s%%",
		r.Variance.OnTimeRate.StringFixed(1),
		r.Variance.RecoveryRate.StringFixed(1),
	)
	return sb.String()
}
