package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch/internal/provider"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [app...]",
	Short: "Show the active provider per app",
	Long: `Show each app's active provider next to what its config file actually
contains. A drift marker means the file was edited outside ccswitch; run
"ccswitch resync" to rewrite it from the registry.`,
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

		statuses, err := rt.eng.Status(apps)
		if err != nil {
			return err
		}

		for _, st := range statuses {
			fmt.Println(headerStyle.Render(st.App.DisplayName()))

			switch {
			case st.Current == nil:
				fmt.Println(dimStyle.Render("  no provider active"))
			default:
				fmt.Printf("  current: %s  %s  %s\n",
					successStyle.Render(st.Current.Name),
					provider.MaskKey(st.Current.APIKey),
					dimStyle.Render(st.Current.BaseURL))
				if st.Current.Model != "" {
					fmt.Printf("  model:   %s\n", st.Current.Model)
				}
			}

			switch {
			case st.LiveErr != nil:
				fmt.Println(errorStyle.Render("  live config: " + st.LiveErr.Error()))
			case !st.Live.Exists:
				fmt.Println(dimStyle.Render("  live config: not created yet"))
			case st.Drift:
				fmt.Println(warnStyle.Render("  live config: drifted from registry (edited externally)"))
			default:
				fmt.Println(dimStyle.Render("  live config: in sync"))
			}
		}
		return nil
	},
}
