package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vsinha/bayplan/pkg/application/dto"
	"github.com/vsinha/bayplan/pkg/application/services/scheduling"
	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/interfaces/cli/output"
)

// scheduleFlags are the fields a create or update command may set
type scheduleFlags struct {
	id      string
	project string
	bay     string
	start   string
	end     string
	hours   string
	row     int
}

func (f *scheduleFlags) register(cmd *cobra.Command, withID bool) {
	if withID {
		cmd.Flags().StringVar(&f.id, "id", "", "schedule id (default a new UUID)")
	}
	cmd.Flags().StringVar(&f.project, "project", "", "project id")
	cmd.Flags().StringVar(&f.bay, "bay", "", "bay id")
	cmd.Flags().StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.hours, "hours", "", "total hours (default the project's total hours)")
	cmd.Flags().IntVar(&f.row, "row", 0, "requested lane row")
}

// command converts the flags that were set into a ScheduleCommand
func (f *scheduleFlags) command(cmd *cobra.Command, kind scheduling.CommandKind) (scheduling.ScheduleCommand, error) {
	c := scheduling.ScheduleCommand{
		Kind:       kind,
		ScheduleID: entities.ScheduleID(f.id),
		ProjectID:  entities.ProjectID(f.project),
		BayID:      entities.BayID(f.bay),
	}

	var err error
	if f.start != "" {
		if c.StartDate, err = entities.ParseDate(f.start); err != nil {
			return c, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if f.end != "" {
		if c.EndDate, err = entities.ParseDate(f.end); err != nil {
			return c, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if f.hours != "" {
		hours, err := decimal.NewFromString(f.hours)
		if err != nil {
			return c, fmt.Errorf("invalid --hours: %s", f.hours)
		}
		c.TotalHours = decimal.NewNullDecimal(hours)
	}
	if cmd.Flags().Changed("row") {
		row := f.row
		c.Row = &row
	}
	return c, nil
}

func newScheduleCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create, update or delete a schedule",
		Long: `Apply a single schedule change to the loaded scenario and show the
resulting lane layout of the affected bay. Changes are validated, placed in a
free lane and kept for the rest of the invocation; scenario files are not
rewritten.`,
	}

	var createFlags scheduleFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Schedule a project into a bay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := createFlags.command(cmd, scheduling.Create)
			if err != nil {
				return err
			}
			return rt.submit(cmd, c)
		},
	}
	createFlags.register(create, true)

	var updateFlags scheduleFlags
	update := &cobra.Command{
		Use:   "update <schedule-id>",
		Short: "Move, resize or reassign a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updateFlags.id = args[0]
			c, err := updateFlags.command(cmd, scheduling.Update)
			if err != nil {
				return err
			}
			return rt.submit(cmd, c)
		},
	}
	updateFlags.register(update, false)

	remove := &cobra.Command{
		Use:     "delete <schedule-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a schedule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.submit(cmd, scheduling.ScheduleCommand{
				Kind:       scheduling.Delete,
				ScheduleID: entities.ScheduleID(args[0]),
			})
		},
	}

	cmd.AddCommand(create, update, remove)
	return cmd
}

// submit applies a schedule command and prints the result and the bay's lanes
func (rt *runtime) submit(cmd *cobra.Command, c scheduling.ScheduleCommand) error {
	result, err := rt.app.Schedules.SubmitScheduleChange(cmd.Context(), c)
	if err != nil {
		return err
	}
	rt.app.Events.Wait()

	printer, err := rt.printer(cmd)
	if err != nil {
		return err
	}
	if err := printer.ScheduleResult(c.Kind, result); err != nil {
		return err
	}
	if printer.Format() == output.FormatJSON {
		return nil
	}

	dashboard, err := rt.build(cmd, dto.DashboardParams{})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	lanes, conflicts := filterLanes(dashboard, result.BayID)
	return printer.Lanes(lanes, conflicts)
}
