package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <app> <name-or-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a provider profile",
	Long: `Delete a provider profile. Removing the active provider clears the
app's current pointer; the app's config file is left untouched.`,
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

		p, err := rt.eng.Remove(app, args[1])
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Removed %q from %s", p.Name, app.DisplayName())))
		return nil
	},
}
