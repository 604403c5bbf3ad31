package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
)

func init() {
	rootCmd.AddCommand(switchCmd)
}

var switchCmd = &cobra.Command{
	Use:   "switch <app> <name-or-id>",
	Short: "Activate a provider for an app",
	Long: `Activate a provider: its credentials are written into the app's own
config file, then the registry's current pointer moves. The provider may be
referenced by name, id, or a unique name prefix.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := apptype.Parse(args[0])
		if err != nil {
			return err
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		p, err := rt.eng.Switch(app, args[1])
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Switched %s to %q", app.DisplayName(), p.Name)))
		fmt.Println(dimStyle.Render("  " + rt.paths.LiveConfigPath(app)))
		return nil
	},
}
