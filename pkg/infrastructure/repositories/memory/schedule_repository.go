package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
)

// ScheduleRepository provides in-memory schedule storage with
// single-record mutations
type ScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[entities.ScheduleID]entities.ManufacturingSchedule
	order     []entities.ScheduleID
	version   atomic.Uint64
}

// NewScheduleRepository creates a new in-memory schedule repository
func NewScheduleRepository(expectedSchedules int) *ScheduleRepository {
	return &ScheduleRepository{
		schedules: make(map[entities.ScheduleID]entities.ManufacturingSchedule, expectedSchedules),
		order:     make([]entities.ScheduleID, 0, expectedSchedules),
	}
}

// Verify interface compliance
var _ repositories.ScheduleRepository = (*ScheduleRepository)(nil)

// LoadSchedules loads schedules into the repository, replacing any with the same id
func (r *ScheduleRepository) LoadSchedules(schedules []*entities.ManufacturingSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range schedules {
		if _, exists := r.schedules[s.ID]; !exists {
			r.order = append(r.order, s.ID)
		}
		r.schedules[s.ID] = *s
	}
	r.version.Add(1)
	return nil
}

// GetSchedule returns a copy of the schedule with the given id
func (r *ScheduleRepository) GetSchedule(id entities.ScheduleID) (*entities.ManufacturingSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.schedules[id]
	if !exists {
		return nil, fmt.Errorf("schedule %s: %w", id, repositories.ErrNotFound)
	}
	return &s, nil
}

// GetAllSchedules returns copies of all schedules in insertion order
func (r *ScheduleRepository) GetAllSchedules() ([]*entities.ManufacturingSchedule, error) {
	return r.filter(func(entities.ManufacturingSchedule) bool { return true }), nil
}

// GetSchedulesForBay returns copies of the schedules assigned to a bay
func (r *ScheduleRepository) GetSchedulesForBay(bayID entities.BayID) ([]*entities.ManufacturingSchedule, error) {
	return r.filter(func(s entities.ManufacturingSchedule) bool { return s.BayID == bayID }), nil
}

func (r *ScheduleRepository) filter(keep func(entities.ManufacturingSchedule) bool) []*entities.ManufacturingSchedule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.ManufacturingSchedule, 0, len(r.order))
	for _, id := range r.order {
		s := r.schedules[id]
		if keep(s) {
			result = append(result, &s)
		}
	}
	return result
}

// CreateSchedule stores a new schedule
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule *entities.ManufacturingSchedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schedules[schedule.ID]; exists {
		return fmt.Errorf("schedule %s: %w", schedule.ID, repositories.ErrAlreadyExists)
	}
	r.schedules[schedule.ID] = *schedule
	r.order = append(r.order, schedule.ID)
	r.version.Add(1)
	return nil
}

// UpdateSchedule replaces an existing schedule
func (r *ScheduleRepository) UpdateSchedule(ctx context.Context, schedule *entities.ManufacturingSchedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schedules[schedule.ID]; !exists {
		return fmt.Errorf("schedule %s: %w", schedule.ID, repositories.ErrNotFound)
	}
	r.schedules[schedule.ID] = *schedule
	r.version.Add(1)
	return nil
}

// DeleteSchedule removes a schedule
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id entities.ScheduleID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schedules[id]; !exists {
		return fmt.Errorf("schedule %s: %w", id, repositories.ErrNotFound)
	}
	delete(r.schedules, id)
	r.order = slices.DeleteFunc(r.order, func(existing entities.ScheduleID) bool { return existing == id })
	r.version.Add(1)
	return nil
}

// Version returns a counter that advances on every change
func (r *ScheduleRepository) Version() uint64 {
	return r.version.Load()
}
