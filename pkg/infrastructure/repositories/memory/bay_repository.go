package memory

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
)

// BayRepository provides in-memory bay storage
type BayRepository struct {
	mu      sync.RWMutex
	bays    []entities.ManufacturingBay
	baysMap map[entities.BayID]int
	version atomic.Uint64
}

// NewBayRepository creates a new in-memory bay repository
func NewBayRepository(expectedBays int) *BayRepository {
	return &BayRepository{
		bays:    make([]entities.ManufacturingBay, 0, expectedBays),
		baysMap: make(map[entities.BayID]int, expectedBays),
	}
}

// Verify interface compliance
var _ repositories.BayRepository = (*BayRepository)(nil)

// LoadBays loads bays into the repository, replacing any with the same id
func (r *BayRepository) LoadBays(bays []*entities.ManufacturingBay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, bay := range bays {
		if index, exists := r.baysMap[bay.ID]; exists {
			r.bays[index] = *bay
			continue
		}
		r.baysMap[bay.ID] = len(r.bays)
		r.bays = append(r.bays, *bay)
	}
	r.version.Add(1)
	return nil
}

// GetBay returns a copy of the bay with the given id
func (r *BayRepository) GetBay(id entities.BayID) (*entities.ManufacturingBay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.baysMap[id]
	if !exists {
		return nil, fmt.Errorf("bay %s: %w", id, repositories.ErrNotFound)
	}
	bay := r.bays[index]
	return &bay, nil
}

// GetAllBays returns copies of all bays in load order
func (r *BayRepository) GetAllBays() ([]*entities.ManufacturingBay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bays := make([]*entities.ManufacturingBay, 0, len(r.bays))
	for _, b := range r.bays {
		bay := b
		bays = append(bays, &bay)
	}
	return bays, nil
}

// Version returns a counter that advances on every change
func (r *BayRepository) Version() uint64 {
	return r.version.Load()
}
