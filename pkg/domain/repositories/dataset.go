package repositories

import (
	"fmt"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

// Dataset is a bulk set of records read from a scenario source
type Dataset struct {
	Projects  []*entities.Project
	Bays      []*entities.ManufacturingBay
	Schedules []*entities.ManufacturingSchedule
}

// CheckReferences verifies that every schedule points at a known project and bay
func (d *Dataset) CheckReferences() error {
	projects := make(map[entities.ProjectID]bool, len(d.Projects))
	for _, p := range d.Projects {
		projects[p.ID] = true
	}
	bays := make(map[entities.BayID]bool, len(d.Bays))
	for _, b := range d.Bays {
		bays[b.ID] = true
	}
	for _, s := range d.Schedules {
		if !projects[s.ProjectID] {
			return fmt.Errorf("schedule %s references unknown project %s", s.ID, s.ProjectID)
		}
		if !bays[s.BayID] {
			return fmt.Errorf("schedule %s references unknown bay %s", s.ID, s.BayID)
		}
	}
	return nil
}
