package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
	"ccswitch/internal/engine"
)

var (
	testName        string
	testConcurrency int
	testTimeout     time.Duration
)

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().StringVarP(&testName, "name", "n", "", "only providers whose name contains this")
	testCmd.Flags().IntVarP(&testConcurrency, "concurrency", "c", engine.DefaultTestConcurrency, "parallel checks")
	testCmd.Flags().DurationVarP(&testTimeout, "timeout", "t", engine.DefaultTestTimeout, "per-provider timeout")
}

var testCmd = &cobra.Command{
	Use:   "test [app]",
	Short: "Check provider endpoints for liveness",
	Long: `Probe every matching provider's endpoint concurrently and report
latency per provider. A failing endpoint never aborts the run; it is
reported and the rest continue.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var app apptype.AppType
		if len(args) == 1 {
			var err error
			if app, err = apptype.Parse(args[0]); err != nil {
				return err
			}
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.eng.TestAll(cmd.Context(),
			engine.Filter{App: app, Name: testName},
			engine.TestOptions{Concurrency: testConcurrency, Timeout: testTimeout})
		if err != nil {
			return err
		}

		printReport(report)
		return report.Err()
	},
}
