package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

var (
	addBaseURL    string
	addModel      string
	addSmallModel string
	addMeta       []string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addBaseURL, "base-url", "u", "", "API base URL (required)")
	addCmd.Flags().StringVarP(&addModel, "model", "m", "", "model name override")
	addCmd.Flags().StringVar(&addSmallModel, "small-model", "", "small/fast model name override")
	addCmd.Flags().StringArrayVar(&addMeta, "meta", nil, "metadata entry as key=value (repeatable)")
	_ = addCmd.MarkFlagRequired("base-url")
}

var addCmd = &cobra.Command{
	Use:   "add <app> <name> <api-key>",
	Short: "Add a provider profile",
	Long: `Add a provider profile for one app. The first provider added for an
app is activated immediately.

Examples:
  ccswitch add claude fast-api sk-xxx --base-url https://api.example.com
  ccswitch add codex relay sk-yyy -u https://relay.example.com -m gpt-5-codex`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := apptype.Parse(args[0])
		if err != nil {
			return err
		}

		p := provider.New(app, args[1], args[2], addBaseURL)
		p.Model = addModel
		p.SmallModel = addSmallModel
		if p.Metadata, err = parseMeta(addMeta); err != nil {
			return err
		}

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		activated, err := rt.eng.Add(p)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Added %q for %s", p.Name, app.DisplayName())))
		if activated {
			fmt.Println(successStyle.Render(fmt.Sprintf("Activated %q (first provider for %s)", p.Name, app)))
		}
		return nil
	},
}

func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --meta entry %q, want key=value", pair)
		}
		meta[k] = v
	}
	return meta, nil
}
