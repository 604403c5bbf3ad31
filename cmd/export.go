package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
	"ccswitch/internal/engine"
)

var (
	exportApp string
	exportOut string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportApp, "app", "", "only providers of this app")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export providers as a YAML document",
	Long: `Export providers to a portable YAML document for backup or transfer.
API keys are included in the clear; treat the output like a credential file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter engine.Filter
		if exportApp != "" {
			app, err := apptype.Parse(exportApp)
			if err != nil {
				return err
			}
			filter.App = app
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		data, err := rt.eng.Export(filter)
		if err != nil {
			return err
		}

		if exportOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o600); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Exported to " + exportOut))
		return nil
	},
}
