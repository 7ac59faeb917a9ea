package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when creating a record whose id is taken
	ErrAlreadyExists = errors.New("record already exists")
)

// ScheduleRepository provides access to manufacturing schedules.
// Mutations are single-record operations; every successful mutation
// advances Version.
type ScheduleRepository interface {
	GetSchedule(id entities.ScheduleID) (*entities.ManufacturingSchedule, error)
	GetAllSchedules() ([]*entities.ManufacturingSchedule, error)
	GetSchedulesForBay(bayID entities.BayID) ([]*entities.ManufacturingSchedule, error)
	LoadSchedules(schedules []*entities.ManufacturingSchedule) error

	CreateSchedule(ctx context.Context, schedule *entities.ManufacturingSchedule) error
	UpdateSchedule(ctx context.Context, schedule *entities.ManufacturingSchedule) error
	DeleteSchedule(ctx context.Context, id entities.ScheduleID) error

	Version() uint64
}
