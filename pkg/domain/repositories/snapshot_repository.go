package repositories

import (
	"context"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// SnapshotRepository hands out read-only snapshots of all scheduling data.
// Callers must not modify a returned snapshot.
type SnapshotRepository interface {
	Snapshot(ctx context.Context) (*entities.Snapshot, error)
}
