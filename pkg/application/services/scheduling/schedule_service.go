package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
	"github.com/vsinha/bayplan/pkg/domain/services"
	"github.com/vsinha/bayplan/pkg/infrastructure/events"
	"github.com/vsinha/bayplan/pkg/infrastructure/logging"
	"github.com/vsinha/bayplan/pkg/infrastructure/metrics"
)

// ScheduleService applies schedule commands: it validates them, places the
// schedule in a lane, persists it and publishes the resulting events.
// Commands are applied one at a time and are never retried.
type ScheduleService struct {
	projects   repositories.ProjectRepository
	bays       repositories.BayRepository
	schedules  repositories.ScheduleRepository
	lanes      *services.LaneAssigner
	eventStore events.EventStore
	metrics    metrics.Collector
	logger     *logging.Logger
	newID      func() entities.ScheduleID
	now        func() time.Time
	mu         sync.Mutex
}

// NewScheduleService creates a new schedule command service
func NewScheduleService(
	projects repositories.ProjectRepository,
	bays repositories.BayRepository,
	schedules repositories.ScheduleRepository,
	lanes *services.LaneAssigner,
	eventStore events.EventStore,
	collector metrics.Collector,
	logger *logging.Logger,
) *ScheduleService {
	if lanes == nil {
		lanes = services.NewLaneAssigner()
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &ScheduleService{
		projects:   projects,
		bays:       bays,
		schedules:  schedules,
		lanes:      lanes,
		eventStore: eventStore,
		metrics:    collector,
		logger:     logger.WithComponent("scheduling"),
		newID:      func() entities.ScheduleID { return entities.ScheduleID(uuid.NewString()) },
		now:        time.Now,
	}
}

// SubmitScheduleChange applies one create, update or delete command. On
// failure the returned error is a *ScheduleError.
func (s *ScheduleService) SubmitScheduleChange(ctx context.Context, cmd ScheduleCommand) (ScheduleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		result ScheduleResult
		err    error
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = &ScheduleError{Op: cmd.Kind, ScheduleID: cmd.ScheduleID, Err: ctxErr}
	} else {
		switch cmd.Kind {
		case Create:
			result, err = s.create(ctx, cmd)
		case Update:
			result, err = s.update(ctx, cmd)
		case Delete:
			result, err = s.delete(ctx, cmd)
		default:
			err = &ScheduleError{Op: cmd.Kind, ScheduleID: cmd.ScheduleID, Field: "kind", Err: ErrInvalidCommand}
		}
	}

	if err != nil {
		s.metrics.IncrementScheduleCommand(cmd.Kind.String(), metrics.ResultFailure)
		s.logger.Warn("schedule command rejected",
			"kind", cmd.Kind.String(),
			"schedule_id", string(cmd.ScheduleID),
			"error", err.Error(),
		)
		return ScheduleResult{}, err
	}

	s.metrics.IncrementScheduleCommand(cmd.Kind.String(), metrics.ResultSuccess)
	s.logger.WithBay(string(result.BayID)).Info("schedule command applied",
		"kind", cmd.Kind.String(),
		"schedule_id", string(result.ScheduleID),
		"row", result.Row,
		"reassigned", result.Reassigned,
	)
	return result, nil
}

func (s *ScheduleService) create(ctx context.Context, cmd ScheduleCommand) (ScheduleResult, error) {
	id := cmd.ScheduleID
	if id == "" {
		id = s.newID()
	}

	candidate := entities.ManufacturingSchedule{
		ID:         id,
		ProjectID:  cmd.ProjectID,
		BayID:      cmd.BayID,
		StartDate:  cmd.StartDate,
		EndDate:    cmd.EndDate,
		TotalHours: cmd.TotalHours,
	}
	if cmd.Row != nil {
		candidate.Row = *cmd.Row
	}

	if err := s.validate(Create, &candidate); err != nil {
		return ScheduleResult{}, err
	}

	placement, err := s.place(Create, candidate)
	if err != nil {
		return ScheduleResult{}, err
	}
	candidate.Row = placement.Row

	if err := s.schedules.CreateSchedule(ctx, &candidate); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return ScheduleResult{}, &ScheduleError{Op: Create, ScheduleID: id, Field: "schedule_id", Err: fmt.Errorf("%w: id already in use", ErrInvalidCommand)}
		}
		return ScheduleResult{}, s.persistenceError(Create, id, err)
	}

	s.publish(candidate.BayID, events.ScheduleCreatedEvent, events.ScheduleCreated{Schedule: candidate})
	s.recordPlacement(candidate, placement)

	return resultFor(candidate, placement), nil
}

func (s *ScheduleService) update(ctx context.Context, cmd ScheduleCommand) (ScheduleResult, error) {
	if cmd.ScheduleID == "" {
		return ScheduleResult{}, &ScheduleError{Op: Update, Field: "schedule_id", Err: ErrInvalidCommand}
	}

	existing, err := s.schedules.GetSchedule(cmd.ScheduleID)
	if err != nil {
		return ScheduleResult{}, s.lookupError(Update, cmd.ScheduleID, err)
	}

	candidate := *existing
	if cmd.ProjectID != "" {
		candidate.ProjectID = cmd.ProjectID
	}
	if cmd.BayID != "" {
		candidate.BayID = cmd.BayID
	}
	if cmd.StartDate.IsSet() {
		candidate.StartDate = cmd.StartDate
	}
	if cmd.EndDate.IsSet() {
		candidate.EndDate = cmd.EndDate
	}
	if cmd.TotalHours.Valid {
		candidate.TotalHours = cmd.TotalHours
	}
	if cmd.Row != nil {
		candidate.Row = *cmd.Row
	}

	if err := s.validate(Update, &candidate); err != nil {
		return ScheduleResult{}, err
	}

	placement, err := s.place(Update, candidate)
	if err != nil {
		return ScheduleResult{}, err
	}
	candidate.Row = placement.Row

	if err := s.schedules.UpdateSchedule(ctx, &candidate); err != nil {
		return ScheduleResult{}, s.persistenceError(Update, candidate.ID, err)
	}

	s.publish(candidate.BayID, events.ScheduleUpdatedEvent, events.ScheduleUpdated{OldSchedule: *existing, NewSchedule: candidate})
	s.recordPlacement(candidate, placement)

	return resultFor(candidate, placement), nil
}

func (s *ScheduleService) delete(ctx context.Context, cmd ScheduleCommand) (ScheduleResult, error) {
	if cmd.ScheduleID == "" {
		return ScheduleResult{}, &ScheduleError{Op: Delete, Field: "schedule_id", Err: ErrInvalidCommand}
	}

	existing, err := s.schedules.GetSchedule(cmd.ScheduleID)
	if err != nil {
		return ScheduleResult{}, s.lookupError(Delete, cmd.ScheduleID, err)
	}

	if err := s.schedules.DeleteSchedule(ctx, existing.ID); err != nil {
		return ScheduleResult{}, s.persistenceError(Delete, existing.ID, err)
	}

	s.publish(existing.BayID, events.ScheduleDeletedEvent, events.ScheduleDeleted{Schedule: *existing})

	return ScheduleResult{
		ScheduleID:   existing.ID,
		BayID:        existing.BayID,
		Row:          existing.Row,
		RequestedRow: existing.Row,
	}, nil
}

// RebalanceBay recomputes every lane of a bay and persists the rows that
// changed. It returns the assignments that moved a schedule.
func (s *ScheduleService) RebalanceBay(ctx context.Context, bayID entities.BayID) ([]entities.LaneAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves, err := s.rebalance(ctx, bayID)
	if err != nil {
		s.metrics.IncrementScheduleCommand(Rebalance.String(), metrics.ResultFailure)
		return nil, err
	}

	s.metrics.IncrementScheduleCommand(Rebalance.String(), metrics.ResultSuccess)
	s.logger.WithBay(string(bayID)).Info("bay lanes rebalanced", "moves", len(moves))
	return moves, nil
}

func (s *ScheduleService) rebalance(ctx context.Context, bayID entities.BayID) ([]entities.LaneAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ScheduleError{Op: Rebalance, Err: err}
	}
	if _, err := s.bays.GetBay(bayID); err != nil {
		return nil, &ScheduleError{Op: Rebalance, Field: "bay_id", Err: fmt.Errorf("%w: %s", ErrUnknownBay, bayID)}
	}

	current, err := s.bayScheduleList(bayID)
	if err != nil {
		return nil, s.persistenceError(Rebalance, "", err)
	}
	byID := make(map[entities.ScheduleID]entities.ManufacturingSchedule, len(current))
	for _, sched := range current {
		byID[sched.ID] = sched
	}

	var moves []entities.LaneAssignment
	for _, assignment := range s.lanes.AssignLanes(current) {
		if !assignment.Moved() {
			continue
		}
		updated := byID[assignment.ScheduleID]
		updated.Row = assignment.Row
		if err := s.schedules.UpdateSchedule(ctx, &updated); err != nil {
			return moves, s.persistenceError(Rebalance, updated.ID, err)
		}
		moves = append(moves, assignment)
		s.metrics.IncrementLaneReassignment(string(bayID))
	}

	if len(moves) > 0 {
		s.publish(bayID, events.BayRebalancedEvent, events.BayRebalanced{BayID: bayID, Moves: moves})
	}
	return moves, nil
}

// validate checks a candidate schedule at the command boundary
func (s *ScheduleService) validate(op CommandKind, c *entities.ManufacturingSchedule) error {
	if c.ProjectID == "" {
		return &ScheduleError{Op: op, ScheduleID: c.ID, Field: "project_id", Err: ErrInvalidCommand}
	}
	if _, err := s.projects.GetProject(c.ProjectID); err != nil {
		return &ScheduleError{Op: op, ScheduleID: c.ID, Field: "project_id", Err: fmt.Errorf("%w: %s", ErrUnknownProject, c.ProjectID)}
	}
	if c.BayID == "" {
		return &ScheduleError{Op: op, ScheduleID: c.ID, Field: "bay_id", Err: ErrInvalidCommand}
	}
	if _, err := s.bays.GetBay(c.BayID); err != nil {
		return &ScheduleError{Op: op, ScheduleID: c.ID, Field: "bay_id", Err: fmt.Errorf("%w: %s", ErrUnknownBay, c.BayID)}
	}
	if !c.StartDate.IsSet() || !c.EndDate.IsSet() {
		return &ScheduleError{Op: op, ScheduleID: c.ID, Field: "dates", Err: fmt.Errorf("%w: start and end dates are required", ErrInvalidDateRange)}
	}
	if c.StartDate.After(c.EndDate) {
		return &ScheduleError{
			Op:         op,
			ScheduleID: c.ID,
			Field:      "dates",
			Err:        fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange, c.StartDate, c.EndDate),
		}
	}
	if c.TotalHours.Valid && c.TotalHours.Decimal.IsNegative() {
		return &ScheduleError{
			Op:         op,
			ScheduleID: c.ID,
			Field:      "total_hours",
			Err:        fmt.Errorf("%w: %s is negative", ErrInvalidHours, c.TotalHours.Decimal),
		}
	}
	if c.Row < 0 {
		c.Row = 0
	}

	if _, err := entities.NewManufacturingSchedule(c.ID, c.ProjectID, c.BayID, c.StartDate, c.EndDate, c.TotalHours, c.Row); err != nil {
		return &ScheduleError{Op: op, ScheduleID: c.ID, Err: fmt.Errorf("%w: %v", ErrInvalidCommand, err)}
	}
	return nil
}

func (s *ScheduleService) place(op CommandKind, candidate entities.ManufacturingSchedule) (entities.LanePlacement, error) {
	existing, err := s.bayScheduleList(candidate.BayID)
	if err != nil {
		return entities.LanePlacement{}, s.persistenceError(op, candidate.ID, err)
	}
	return s.lanes.Place(existing, candidate), nil
}

func (s *ScheduleService) bayScheduleList(bayID entities.BayID) ([]entities.ManufacturingSchedule, error) {
	ptrs, err := s.schedules.GetSchedulesForBay(bayID)
	if err != nil {
		return nil, err
	}
	list := make([]entities.ManufacturingSchedule, 0, len(ptrs))
	for _, p := range ptrs {
		list = append(list, *p)
	}
	return list, nil
}

func (s *ScheduleService) recordPlacement(schedule entities.ManufacturingSchedule, placement entities.LanePlacement) {
	if !placement.Reassigned {
		return
	}
	s.metrics.IncrementLaneReassignment(string(schedule.BayID))
	s.publish(schedule.BayID, events.ScheduleLaneReassignedEvent, events.ScheduleLaneReassigned{
		ScheduleID:   schedule.ID,
		BayID:        schedule.BayID,
		RequestedRow: placement.RequestedRow,
		AssignedRow:  placement.Row,
	})
	s.logger.WithBay(string(schedule.BayID)).Debug("lane reassigned",
		"schedule_id", string(schedule.ID),
		"requested_row", placement.RequestedRow,
		"assigned_row", placement.Row,
	)
}

// publish appends an event to the bay's stream. The command has already been
// persisted, so append failures are logged rather than returned.
func (s *ScheduleService) publish(bayID entities.BayID, eventType string, data any) {
	if s.eventStore == nil {
		return
	}
	stream := events.BayStream(string(bayID))
	if err := s.eventStore.AppendEvent(stream, events.NewEventAt(eventType, stream, data, s.now())); err != nil {
		s.logger.Error("failed to append event", "event_type", eventType, "stream_id", stream, "error", err.Error())
	}
}

func (s *ScheduleService) lookupError(op CommandKind, id entities.ScheduleID, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &ScheduleError{Op: op, ScheduleID: id, Err: ErrScheduleNotFound}
	}
	return s.persistenceError(op, id, err)
}

func (s *ScheduleService) persistenceError(op CommandKind, id entities.ScheduleID, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &ScheduleError{Op: op, ScheduleID: id, Err: err}
	}
	return &ScheduleError{Op: op, ScheduleID: id, Err: fmt.Errorf("%w: %w", ErrPersistence, err)}
}

func resultFor(schedule entities.ManufacturingSchedule, placement entities.LanePlacement) ScheduleResult {
	return ScheduleResult{
		ScheduleID:   schedule.ID,
		BayID:        schedule.BayID,
		Row:          placement.Row,
		RequestedRow: placement.RequestedRow,
		Reassigned:   placement.Reassigned,
	}
}
