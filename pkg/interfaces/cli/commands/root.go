package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vsinha/bayplan/pkg/application/dto"
	"github.com/vsinha/bayplan/pkg/infrastructure/config"
	"github.com/vsinha/bayplan/pkg/interfaces/cli/output"
)

// rootOptions holds the persistent flags
type rootOptions struct {
	configPath string
	format     string
	now        string
	verbose    bool
}

// runtime is shared by the subcommands; app is set once flags are parsed
type runtime struct {
	opts  *rootOptions
	viper *viper.Viper
	app   *App
}

func (rt *runtime) printer(cmd *cobra.Command) (*output.Printer, error) {
	return output.NewPrinter(cmd.OutOrStdout(), rt.opts.format)
}

func (rt *runtime) build(cmd *cobra.Command, params dto.DashboardParams) (*dto.DashboardResult, error) {
	params.Now = rt.app.Now
	return rt.app.Dashboard.Build(cmd.Context(), params)
}

// NewRootCommand builds the bayplan command tree
func NewRootCommand() *cobra.Command {
	rt := &runtime{opts: &rootOptions{}, viper: config.New()}

	root := &cobra.Command{
		Use:   "bayplan",
		Short: "Manufacturing bay capacity scheduling and forecasting",
		Long: `bayplan computes how much of each staffed manufacturing bay's weekly
capacity is consumed by scheduled projects, lays overlapping schedules out in
lanes, projects utilization and availability forward, and compares actual
milestone dates against the original plan.

Scenario data is read from a directory holding scenario.yaml, or
projects.csv, bays.csv and schedules.csv.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := output.NewPrinter(cmd.OutOrStdout(), rt.opts.format); err != nil {
				return err
			}
			app, err := newApp(rt.viper, rt.opts.configPath, rt.opts.now, rt.opts.verbose)
			if err != nil {
				return err
			}
			rt.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rt.app == nil {
				return nil
			}
			return rt.app.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&rt.opts.configPath, "config", "c", "", "config file (yaml, toml or json)")
	flags.String("scenario", "", "scenario directory (default from data.scenario_dir)")
	flags.StringVarP(&rt.opts.format, "format", "f", output.FormatText, "output format: text or json")
	flags.StringVar(&rt.opts.now, "now", "", "evaluate as of this date (YYYY-MM-DD, default today)")
	flags.BoolVarP(&rt.opts.verbose, "verbose", "v", false, "enable debug logging")
	_ = rt.viper.BindPFlag("data.scenario_dir", flags.Lookup("scenario"))

	root.AddCommand(
		newUtilizationCommand(rt),
		newForecastCommand(rt),
		newAvailabilityCommand(rt),
		newCapacityCommand(rt),
		newLanesCommand(rt),
		newVarianceCommand(rt),
		newScheduleCommand(rt),
		newDashboardCommand(rt),
	)
	return root
}
