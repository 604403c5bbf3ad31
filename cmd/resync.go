package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resyncCmd)
}

var resyncCmd = &cobra.Command{
	Use:   "resync [app...]",
	Short: "Rewrite live config files from the registry",
	Long: `Rewrite each app's config file from its current provider, repairing
files that were edited externally or deleted. Apps without an active
provider are skipped. With no arguments, all apps are resynced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := parseApps(args)
		if err != nil {
			return err
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		report := rt.eng.ResyncAll(apps)
		printReport(report)
		return report.Err()
	},
}
