package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// PhaseAllocationResolver splits a schedule's hours into sequential phase windows
type PhaseAllocationResolver struct {
	fallback entities.PhaseWeights
}

// NewPhaseAllocationResolver creates a resolver that treats projects without
// phase weights as pure production work
func NewPhaseAllocationResolver() *PhaseAllocationResolver {
	return &PhaseAllocationResolver{
		fallback: entities.PhaseWeights{entities.Production: hundred},
	}
}

// Resolve distributes the schedule's hours over its date span by phase.
//
// Windows follow the fixed phase order and tile the span, each one as long as
// its share of the summed weights. Hours per window are totalHours × weight/100
// and are not normalized, so weights summing past 100 put more than the
// schedule's hours into the span. A schedule without a usable date range has
// no windows; a nil project or one without positive weights is treated as
// 100% production.
func (r *PhaseAllocationResolver) Resolve(
	schedule *entities.ManufacturingSchedule,
	project *entities.Project,
) []entities.PhaseWindow {
	if schedule == nil || !schedule.HasDates() {
		return nil
	}

	weights := r.fallback
	if project != nil && project.PhaseWeights.Total().IsPositive() {
		weights = project.PhaseWeights
	}
	totalWeight := weights.Total()

	spanDays := decimal.NewFromInt(int64(schedule.DurationDays()))
	hours := schedule.HoursFor(project)

	windows := make([]entities.PhaseWindow, 0, len(entities.AllPhases()))
	cursor := decimal.Zero
	cumulative := decimal.Zero

	for _, phase := range entities.AllPhases() {
		weight := weights.Get(phase)
		if !weight.IsPositive() {
			continue
		}
		cumulative = cumulative.Add(weight)

		end := spanDays.Mul(cumulative).Div(totalWeight)
		if cumulative.Equal(totalWeight) {
			end = spanDays
		}

		windows = append(windows, entities.PhaseWindow{
			ScheduleID:  schedule.ID,
			ProjectID:   schedule.ProjectID,
			BayID:       schedule.BayID,
			Phase:       phase,
			WindowStart: schedule.StartDate.AddDays(int(cursor.Floor().IntPart())),
			WindowEnd:   schedule.StartDate.AddDays(lastDayIndex(end)),
			StartOffset: cursor,
			EndOffset:   end,
			Hours:       hours.Mul(weight).Div(hundred),
		})
		cursor = end
	}

	return windows
}

// lastDayIndex returns the index of the calendar day containing the instant
// just before offset
func lastDayIndex(offset decimal.Decimal) int {
	idx := int(offset.Ceil().IntPart()) - 1
	if idx < 0 {
		return 0
	}
	return idx
}
