package memory

import (
	"fmt"

	"github.com/vsinha/bayplan/pkg/domain/repositories"
)

// Store bundles the in-memory repositories of one scenario
type Store struct {
	Projects  *ProjectRepository
	Bays      *BayRepository
	Schedules *ScheduleRepository
}

// NewStore loads a dataset into fresh repositories
func NewStore(dataset *repositories.Dataset) (*Store, error) {
	s := &Store{
		Projects:  NewProjectRepository(len(dataset.Projects)),
		Bays:      NewBayRepository(len(dataset.Bays)),
		Schedules: NewScheduleRepository(len(dataset.Schedules)),
	}
	if err := s.Projects.LoadProjects(dataset.Projects); err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if err := s.Bays.LoadBays(dataset.Bays); err != nil {
		return nil, fmt.Errorf("failed to load bays: %w", err)
	}
	if err := s.Schedules.LoadSchedules(dataset.Schedules); err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	return s, nil
}

// Source returns a snapshot source over the store
func (s *Store) Source() *SnapshotSource {
	return NewSnapshotSource(s.Projects, s.Bays, s.Schedules)
}
