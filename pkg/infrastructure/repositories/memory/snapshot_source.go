package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
)

// SnapshotSource assembles snapshots from the project, bay and schedule
// repositories. The snapshot version is the sum of the repository versions,
// so it advances whenever any of them changes.
type SnapshotSource struct {
	projects  repositories.ProjectRepository
	bays      repositories.BayRepository
	schedules repositories.ScheduleRepository
	clock     func() time.Time
}

// NewSnapshotSource creates a snapshot source over the given repositories
func NewSnapshotSource(
	projects repositories.ProjectRepository,
	bays repositories.BayRepository,
	schedules repositories.ScheduleRepository,
) *SnapshotSource {
	return &SnapshotSource{
		projects:  projects,
		bays:      bays,
		schedules: schedules,
		clock:     time.Now,
	}
}

// Verify interface compliance
var _ repositories.SnapshotRepository = (*SnapshotSource)(nil)

// Version returns the combined version of the underlying repositories
func (s *SnapshotSource) Version() uint64 {
	return s.projects.Version() + s.bays.Version() + s.schedules.Version()
}

// Snapshot reads every repository and returns a fresh snapshot
func (s *SnapshotSource) Snapshot(ctx context.Context) (*entities.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	version := s.Version()

	projects, err := s.projects.GetAllProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}
	bays, err := s.bays.GetAllBays()
	if err != nil {
		return nil, fmt.Errorf("failed to read bays: %w", err)
	}
	schedules, err := s.schedules.GetAllSchedules()
	if err != nil {
		return nil, fmt.Errorf("failed to read schedules: %w", err)
	}

	return entities.NewSnapshot(version, s.clock(), deref(projects), deref(bays), deref(schedules)), nil
}

func deref[T any](items []*T) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		result = append(result, *item)
	}
	return result
}
