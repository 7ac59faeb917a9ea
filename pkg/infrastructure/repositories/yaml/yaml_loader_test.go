package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

const scenario = `
projects:
  - id: P1
    name: Coach One
    total_hours: 140.5
    status: active
    phase_weights: {fab: 20, paint: 10, production: 50, it: 10, ntc: 5, qc: 5}
    plan_dates: {paint: 2025-01-10, delivery: 2025-02-01}
    actual_dates: {paint: "2025-01-12T09:00:00Z", delivery: TBD}
  - id: P2
    total_hours: 400
bays:
  - {id: BAY_A, name: Bay A, team: Assembly, staff_count: 2, hours_per_person_per_week: 40}
schedules:
  - {id: S1, project_id: P1, bay_id: BAY_A, start_date: 2025-01-06, end_date: 2025-01-19, total_hours: 140}
  - {id: S2, project_id: P2, bay_id: BAY_A, row: 2}
`

func TestLoader_Decode(t *testing.T) {
	dataset, err := NewLoader().Decode(strings.NewReader(scenario))
	require.NoError(t, err)
	require.Len(t, dataset.Projects, 2)
	require.Len(t, dataset.Bays, 1)
	require.Len(t, dataset.Schedules, 2)

	p1 := dataset.Projects[0]
	require.True(t, p1.TotalHours.Equal(decimal.RequireFromString("140.5")))
	require.Equal(t, entities.StatusActive, p1.Status)
	require.True(t, p1.PhaseWeights.Get(entities.Fabrication).Equal(decimal.NewFromInt(20)))
	require.Equal(t, entities.NewDate(2025, 1, 10), p1.PlanDates.Get(entities.PaintStart))
	require.Equal(t, entities.NewDate(2025, 1, 12), p1.ActualDates.Get(entities.PaintStart))
	require.False(t, p1.ActualDates.Get(entities.Delivery).IsSet())

	p2 := dataset.Projects[1]
	require.Equal(t, "P2", p2.DisplayName())
	require.Equal(t, entities.StatusPlanned, p2.Status)

	s2 := dataset.Schedules[1]
	require.False(t, s2.HasDates())
	require.False(t, s2.TotalHours.Valid)
	require.Equal(t, 2, s2.Row)
}

func TestLoader_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "unknown_field",
			doc:     "bays:\n  - {id: B, staff: 2}\n",
			wantErr: "field staff not found",
		},
		{
			name:    "unknown_phase",
			doc:     "projects:\n  - {id: P, total_hours: 1, phase_weights: {welding: 5}}\n",
			wantErr: "projects[0]: unknown phase",
		},
		{
			name:    "negative_staff",
			doc:     "bays:\n  - {id: B, staff_count: -1, hours_per_person_per_week: 40}\n",
			wantErr: "bays[0]: staff count cannot be negative",
		},
		{
			name:    "bad_hours",
			doc:     "bays:\n  - {id: B, staff_count: 1, hours_per_person_per_week: forty}\n",
			wantErr: "invalid hours_per_person_per_week: forty",
		},
		{
			name:    "dangling_schedule",
			doc:     "schedules:\n  - {id: S, project_id: P, bay_id: B}\n",
			wantErr: "references unknown project P",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_LoadScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ScenarioFile), []byte(scenario), 0o644))

	dataset, err := NewLoader().LoadScenario(dir)
	require.NoError(t, err)
	require.Len(t, dataset.Schedules, 2)

	_, err = NewLoader().LoadScenario(t.TempDir())
	require.ErrorContains(t, err, "failed to read scenario file")
}

func TestLoader_EmptyDocument(t *testing.T) {
	dataset, err := NewLoader().Decode(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, dataset.Projects)
}
