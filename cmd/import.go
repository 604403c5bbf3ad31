package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ccswitch/internal/engine"
)

var importOpts engine.ImportOptions

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importOpts.Overwrite, "overwrite", false, "replace same-named providers")
	importCmd.Flags().BoolVar(&importOpts.KeepIDs, "keep-ids", false, "preserve exported ids instead of generating fresh ones")
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import providers from an export document",
	Long: `Import providers from a ccswitch export document. Name collisions are
skipped unless --overwrite is given; a malformed entry is reported and
skipped without aborting the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.eng.Import(data, importOpts)
		if err != nil {
			return err
		}
		printReport(report)
		return report.Err()
	},
}
