package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bayplan/pkg/application/services/scheduling"
)

const scenarioDir = "../../../../testdata"

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	base := []string{"--scenario", scenarioDir, "--now", "2025-01-08"}
	return executeCommand(NewRootCommand(), append(args, base...)...)
}

func TestRootCommand_Help(t *testing.T) {
	out, err := executeCommand(NewRootCommand(), "--help")
	require.NoError(t, err)
	for _, sub := range []string{"utilization", "forecast", "availability", "capacity", "lanes", "variance", "schedule", "dashboard"} {
		require.Contains(t, out, sub)
	}
}

func TestUtilizationCommand_JSON(t *testing.T) {
	out, err := run(t, "utilization", "--weeks", "2", "--format", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 6, "3 bays x 2 weeks")
	require.Equal(t, "BAY_A", rows[0]["bay_id"])
	require.Equal(t, "2025-01-06", rows[0]["week_start"])
}

func TestReportCommands_Text(t *testing.T) {
	tests := []struct {
		args  []string
		title string
	}{
		{[]string{"utilization"}, "Weekly Utilization"},
		{[]string{"forecast", "--months", "3"}, "Utilization Forecast"},
		{[]string{"availability"}, "Bay Availability"},
		{[]string{"capacity", "--weeks", "4"}, "Capacity Forecast"},
		{[]string{"lanes"}, "Lanes"},
		{[]string{"variance"}, "Schedule Variance"},
		{[]string{"dashboard"}, "Dashboard Summary"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			require.Contains(t, out, tt.title)
		})
	}
}

func TestLanesCommand_FilterByBay(t *testing.T) {
	out, err := run(t, "lanes", "--bay", "BAY_B", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Lanes []struct {
			BayID string `json:"bay_id"`
		} `json:"lanes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Lanes, 1)
	require.Equal(t, "BAY_B", result.Lanes[0].BayID)
}

func TestLanesCommand_RebalanceRequiresBay(t *testing.T) {
	_, err := run(t, "lanes", "--rebalance")
	require.ErrorContains(t, err, "--rebalance requires --bay")
}

func TestScheduleCreate_ReassignsTakenRow(t *testing.T) {
	out, err := run(t, "schedule", "create",
		"--id", "S9", "--project", "P300", "--bay", "BAY_A",
		"--start", "2025-01-06", "--end", "2025-01-20", "--row", "0",
		"--format", "json")
	require.NoError(t, err)

	var result scheduling.ScheduleResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, 2, result.Row)
	require.Equal(t, 0, result.RequestedRow)
	require.True(t, result.Reassigned)
}

func TestScheduleCreate_TextShowsLanes(t *testing.T) {
	out, err := run(t, "schedule", "create",
		"--id", "S9", "--project", "P300", "--bay", "BAY_B",
		"--start", "2025-04-01", "--end", "2025-04-30")
	require.NoError(t, err)
	require.Contains(t, out, "create schedule S9 in bay BAY_B, row 0")
	require.Contains(t, out, "Lanes")
}

func TestScheduleCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown bay", []string{"schedule", "create", "--project", "P300", "--bay", "NOPE", "--start", "2025-02-01", "--end", "2025-02-10"}, "unknown bay"},
		{"bad date", []string{"schedule", "create", "--project", "P300", "--bay", "BAY_A", "--start", "soon"}, "invalid --start"},
		{"bad hours", []string{"schedule", "create", "--project", "P300", "--bay", "BAY_A", "--hours", "lots"}, "invalid --hours"},
		{"update needs id", []string{"schedule", "update"}, "accepts 1 arg"},
		{"delete unknown", []string{"schedule", "delete", "S404"}, "S404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRootCommand_InvalidFlags(t *testing.T) {
	_, err := run(t, "utilization", "--format", "xml")
	require.ErrorContains(t, err, "unsupported output format")

	_, err = executeCommand(NewRootCommand(), "utilization", "--scenario", scenarioDir, "--now", "tomorrow")
	require.ErrorContains(t, err, "invalid --now")

	_, err = executeCommand(NewRootCommand(), "utilization", "--scenario", t.TempDir())
	require.Error(t, err)
}

func TestRootCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bayplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forecast:\n  utilization_weeks: 1\nbays:\n  excluded_teams: [Library]\n"), 0o600))

	out, err := run(t, "utilization", "--config", path, "--format", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2, "LIB excluded, one week")
}

func TestLoadDataset_PrefersYAML(t *testing.T) {
	dataset, err := LoadDataset(scenarioDir)
	require.NoError(t, err)
	require.Len(t, dataset.Bays, 3)
	require.Len(t, dataset.Schedules, 3)

	_, err = LoadDataset("")
	require.ErrorContains(t, err, "no scenario directory")
}
