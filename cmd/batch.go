package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
	"ccswitch/internal/engine"
	"ccswitch/internal/provider"
)

var (
	batchSyncTargets   []string
	batchSyncOverwrite bool
	batchEditApp       string
	batchEditName      string
	batchRemoveApp     string
	batchRemoveName    string
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.AddCommand(batchSwitchCmd)
	batchCmd.AddCommand(batchSyncCmd)
	batchCmd.AddCommand(batchEditCmd)
	batchCmd.AddCommand(batchRemoveCmd)

	batchSyncCmd.Flags().StringSliceVar(&batchSyncTargets, "to", nil, "target apps (default: all others)")
	batchSyncCmd.Flags().BoolVar(&batchSyncOverwrite, "overwrite", false, "replace same-named providers in targets")

	addEditFieldFlags(batchEditCmd)
	batchEditCmd.Flags().StringVar(&batchEditApp, "app", "", "only providers of this app")
	batchEditCmd.Flags().StringVar(&batchEditName, "name", "", "only providers whose name contains this")

	batchRemoveCmd.Flags().StringVar(&batchRemoveApp, "app", "", "only providers of this app")
	batchRemoveCmd.Flags().StringVar(&batchRemoveName, "name", "", "only providers whose name contains this")
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Multi-provider and multi-app operations",
	Long: `Batch operations across providers and apps. Every item is handled
independently: one failure is reported, the rest proceed.`,
}

var batchSwitchCmd = &cobra.Command{
	Use:   "switch <name> [app...]",
	Short: "Activate the same-named provider on several apps",
	Long: `Activate the provider named <name> on each given app (all apps when
none are given). Apps lacking a provider of that name fail individually.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := parseApps(args[1:])
		if err != nil {
			return err
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		report := rt.eng.SwitchAll(args[0], apps)
		printReport(report)
		return report.Err()
	},
}

var batchSyncCmd = &cobra.Command{
	Use:   "sync <source-app>",
	Short: "Copy providers from one app to others",
	Long: `Copy every provider of the source app into the target apps as new
records. Names already present in a target are skipped unless --overwrite
is given; each target decides independently.

Example:
  ccswitch batch sync claude --to codex,gemini`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := apptype.Parse(args[0])
		if err != nil {
			return err
		}

		targets, err := parseApps(batchSyncTargets)
		if err != nil {
			return err
		}
		if len(batchSyncTargets) == 0 {
			// Default: every app except the source.
			targets = targets[:0]
			for _, app := range apptype.All() {
				if app != source {
					targets = append(targets, app)
				}
			}
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.eng.CopyAll(source, targets, batchSyncOverwrite)
		if err != nil {
			return err
		}
		printReport(report)
		return report.Err()
	},
}

var batchEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply a field edit to all matching providers",
	Long: `Apply the given field flags to every provider matching the --app and
--name filters. Editing an active provider rewrites its app's config file.

Example:
  ccswitch batch edit --app claude --name prod --model claude-opus-4-5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := batchFilter(batchEditApp, batchEditName)
		if err != nil {
			return err
		}
		patch := patchFromFlags(cmd)
		if patch == (provider.Patch{}) {
			return fmt.Errorf("nothing to edit, set at least one field flag")
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.eng.EditAll(filter, patch)
		if err != nil {
			return err
		}
		printReport(report)
		return report.Err()
	},
}

var batchRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete all matching providers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := batchFilter(batchRemoveApp, batchRemoveName)
		if err != nil {
			return err
		}
		if filter == (engine.Filter{}) {
			return fmt.Errorf("refusing to remove everything, set --app or --name")
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.eng.RemoveAll(filter)
		if err != nil {
			return err
		}
		printReport(report)
		return report.Err()
	},
}

func batchFilter(appFlag, nameFlag string) (engine.Filter, error) {
	var filter engine.Filter
	if appFlag != "" {
		app, err := apptype.Parse(appFlag)
		if err != nil {
			return engine.Filter{}, err
		}
		filter.App = app
	}
	filter.Name = nameFlag
	return filter, nil
}
