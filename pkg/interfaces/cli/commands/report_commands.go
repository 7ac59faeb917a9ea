package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/bayplan/pkg/application/dto"
	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/interfaces/cli/output"
)

func newUtilizationCommand(rt *runtime) *cobra.Command {
	var weeks int
	cmd := &cobra.Command{
		Use:   "utilization",
		Short: "Show weekly utilization per bay",
		Long: `Show scheduled hours against capacity for each bay and week, starting
with the week containing --now. Percentages above 100 are over-commitment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rt.build(cmd, dto.DashboardParams{UtilizationWeeks: weeks})
			if err != nil {
				return err
			}
			printer, err := rt.printer(cmd)
			if err != nil {
				return err
			}
			return printer.Utilization(result.Utilization)
		},
	}
	cmd.Flags().IntVar(&weeks, "weeks", 0, "number of weeks (default from forecast.utilization_weeks)")
	return cmd
}

func newForecastCommand(rt *runtime) *cobra.Command {
	var months int
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast average bay utilization per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rt.build(cmd, dto.DashboardParams{HorizonMonths: months})
			if err != nil {
				return err
			}
			printer, err := rt.printer(cmd)
			if err != nil {
				return err
			}
			return printer.Forecast(result.Forecast)
		},
	}
	cmd.Flags().IntVar(&months, "months", 0, "months to forecast, 1-24 (default from forecast.horizon_months)")
	return cmd
}

func newAvailabilityCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "Show when each bay is next free",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rt.build(cmd, dto.DashboardParams{})
			if err != nil {
				return err
			}
			printer, err := rt.printer(cmd)
			if err != nil {
				return err
			}
			return printer.Availability(result.Availability)
		},
	}
}

func newCapacityCommand(rt *runtime) *cobra.Command {
	var weeks int
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Compare scheduled hours against the weekly allowance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rt.build(cmd, dto.DashboardParams{CapacityWeeks: weeks})
			if err != nil {
				return err
			}
			printer, err := rt.printer(cmd)
			if err != nil {
				return err
			}
			return printer.Capacity(result.Capacity)
		},
	}
	cmd.Flags().IntVar(&weeks, "weeks", 0, "number of weeks (default from forecast.capacity_weeks)")
	return cmd
}

func newLanesCommand(rt *runtime) *cobra.Command {
	var (
		bayID     string
		rebalance bool
	)
	cmd := &cobra.Command{
		Use:   "lanes",
		Short: "Show lane assignments per bay",
		Long: `Show the lane (row) layout of each bay's schedules. With --rebalance,
the lanes of --bay are recomputed and the moved rows are stored before the
layout is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := rt.printer(cmd)
			if err != nil {
				return err
			}

			if rebalance {
				if bayID == "" {
					return fmt.Errorf("--rebalance requires --bay")
				}
				moves, err := rt.app.Schedules.RebalanceBay(cmd.Context(), entities.BayID(bayID))
				if err != nil {
					return err
				}
				rt.app.Events.Wait()
				if printer.Format() != output.FormatJSON {
					fmt.Fprintf(cmd.OutOrStdout(), "rebalanced %s: %d schedules moved\n\n", bayID, len(moves))
				}
			}

			result, err := rt.build(cmd, dto.DashboardParams{})
			if err != nil {
				return err
			}
			lanes, conflicts := result.Lanes, result.Conflicts
			if bayID != "" {
				lanes, conflicts = filterLanes(result, entities.BayID(bayID))
			}
			return printer.Lanes(lanes, conflicts)
		},
	}
	cmd.Flags().StringVar(&bayID, "bay", "", "only show this bay")
	cmd.Flags().BoolVar(&rebalance, "rebalance", false, "recompute and store the lanes of --bay")
	return cmd
}

func newVarianceCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "variance",
		Short: "Compare actual milestone dates against the original plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rt.build(cmd, dto.DashboardParams{})
			if err != nil {
				return err
			}
			printer, err := rt.printer(cmd)
			if err != nil {
				return err
			}
			return printer.Variance(result.Variance)
		},
	}
}

// filterLanes keeps the lanes and conflicts of one bay
func filterLanes(result *dto.DashboardResult, bayID entities.BayID) ([]entities.BayLanes, []entities.LaneConflict) {
	var lanes []entities.BayLanes
	scheduleIDs := make(map[entities.ScheduleID]bool)
	for _, l := range result.Lanes {
		if l.BayID != bayID {
			continue
		}
		lanes = append(lanes, l)
		for _, a := range l.Assignments {
			scheduleIDs[a.ScheduleID] = true
		}
	}

	var conflicts []entities.LaneConflict
	for _, c := range result.Conflicts {
		if scheduleIDs[c.First] {
			conflicts = append(conflicts, c)
		}
	}
	return lanes, conflicts
}
