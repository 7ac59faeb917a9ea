package entities

// LaneAssignment records the lane (row) chosen for a schedule within its bay
type LaneAssignment struct {
	ScheduleID  ScheduleID `json:"schedule_id"`
	BayID       BayID      `json:"bay_id"`
	Row         int        `json:"row"`
	PreviousRow int        `json:"previous_row"`
}

// Moved reports whether the assignment changed the schedule's stored row
func (a LaneAssignment) Moved() bool {
	return a.Row != a.PreviousRow
}

// LanePlacement is the outcome of placing one schedule among existing ones
type LanePlacement struct {
	Row          int  `json:"row"`
	RequestedRow int  `json:"requested_row"`
	Reassigned   bool `json:"reassigned"`
}

// LaneConflict identifies two schedules sharing a row with overlapping dates
type LaneConflict struct {
	Row    int        `json:"row"`
	First  ScheduleID `json:"first"`
	Second ScheduleID `json:"second"`
}

// BayLanes summarizes the lane layout of one bay
type BayLanes struct {
	BayID           BayID            `json:"bay_id"`
	LaneCount       int              `json:"lane_count"`
	PeakConcurrency int              `json:"peak_concurrency"`
	Assignments     []LaneAssignment `json:"assignments"`
}
