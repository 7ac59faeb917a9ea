package repositories

import "github.com/vsinha/bayplan/pkg/domain/entities"

// BayRepository provides access to manufacturing bay data
type BayRepository interface {
	GetBay(id entities.BayID) (*entities.ManufacturingBay, error)
	GetAllBays() ([]*entities.ManufacturingBay, error)
	LoadBays(bays []*entities.ManufacturingBay) error
	Version() uint64
}
