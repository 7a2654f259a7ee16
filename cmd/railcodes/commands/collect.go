package commands

import (
	"time"

	"railcodes/lib/telemetry"

	"github.com/spf13/cobra"
)

var pause time.Duration

func init() {
	collectCmd.Flags().DurationVar(&pause, "pause", 0, "How long to wait between clusters when collecting all of them.")
	rootCmd.AddCommand(collectCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect <cluster|all> [key...]",
	Short: "Collect a cluster of codes, optionally limited to some of its keys.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if args[0] == "all" {
			wait := time.Duration(s.Config.PauseSeconds) * time.Second
			if cmd.Flags().Changed("pause") {
				wait = pause
			}
			telemetry.InstrumentPerfStats(ctx, 5*time.Second)
			return s.Registry.CollectAll(ctx, wait)
		}

		runner, err := findRunner(s.Registry, args[0])
		if err != nil {
			return err
		}
		if len(args) > 1 {
			return runner.RunKeys(ctx, args[1:]...)
		}
		return runner.Run(ctx)
	},
}
