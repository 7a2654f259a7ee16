package commands

import (
	"context"
	"fmt"

	"railcodes/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
	update     bool
	yes        bool
	strict     bool
	dataDir    string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", DefaultConfigFile, "The config file to read.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every request and collection step.")
	flags.BoolVar(&update, "update", false, "Refetch pages even when they are cached.")
	flags.BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation before collecting.")
	flags.BoolVar(&strict, "strict", false, "Return an error for any cluster or key that cannot be collected instead of logging it.")
	flags.StringVar(&dataDir, "data-dir", "", "The directory collected data is cached in.")
}

var rootCmd = &cobra.Command{
	Use:           "railcodes",
	Short:         "railcodes collects UK railway reference codes from railwaycodes.org.uk.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

// runs the command line and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}
