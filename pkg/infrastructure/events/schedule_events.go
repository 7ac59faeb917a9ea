package events

import (
	"github.com/vsinha/bayplan/pkg/domain/entities"
)

const (
	ScheduleCreatedEvent        = "schedule.created"
	ScheduleUpdatedEvent        = "schedule.updated"
	ScheduleDeletedEvent        = "schedule.deleted"
	ScheduleLaneReassignedEvent = "schedule.lane_reassigned"

	BayRebalancedEvent = "bay.rebalanced"
)

// ScheduleEventTypes returns every event type that changes schedule data
func ScheduleEventTypes() []string {
	return []string{
		ScheduleCreatedEvent,
		ScheduleUpdatedEvent,
		ScheduleDeletedEvent,
		ScheduleLaneReassignedEvent,
		BayRebalancedEvent,
	}
}

type ScheduleCreated struct {
	Schedule entities.ManufacturingSchedule `json:"schedule"`
}

type ScheduleUpdated struct {
	OldSchedule entities.ManufacturingSchedule `json:"old_schedule"`
	NewSchedule entities.ManufacturingSchedule `json:"new_schedule"`
}

type ScheduleDeleted struct {
	Schedule entities.ManufacturingSchedule `json:"schedule"`
}

// ScheduleLaneReassigned records that a requested row collided and the
// schedule was moved to another lane
type ScheduleLaneReassigned struct {
	ScheduleID   entities.ScheduleID `json:"schedule_id"`
	BayID        entities.BayID      `json:"bay_id"`
	RequestedRow int                 `json:"requested_row"`
	AssignedRow  int                 `json:"assigned_row"`
}

type BayRebalanced struct {
	BayID entities.BayID            `json:"bay_id"`
	Moves []entities.LaneAssignment `json:"moves"`
}
