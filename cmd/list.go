package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

var (
	listDetail bool
	listJSON   bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listDetail, "detail", "d", false, "show models, MCP servers and metadata")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON (keys masked)")
}

var listCmd = &cobra.Command{
	Use:   "list [app]",
	Short: "List provider profiles",
	Args:  cobra.MaximumNArgs(1),
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

		providers, err := rt.st.List(app)
		if err != nil {
			return err
		}

		current := make(map[apptype.AppType]string, len(apptype.All()))
		for _, a := range apptype.All() {
			id, err := rt.st.Current(a)
			if err != nil {
				return err
			}
			current[a] = id
		}

		if listJSON {
			return printProvidersJSON(providers, current)
		}

		if len(providers) == 0 {
			fmt.Println("No providers configured")
			return nil
		}
		for _, p := range providers {
			marker := " "
			if current[p.AppType] == p.ID {
				marker = successStyle.Render("*")
			}
			fmt.Printf("%s %-10s %-20s %s  %s\n",
				marker, p.AppType, p.Name, provider.MaskKey(p.APIKey), dimStyle.Render(p.BaseURL))
			if listDetail {
				printDetail(p)
			}
		}
		fmt.Println(dimStyle.Render("\n* currently active for its app"))
		return nil
	},
}

func printDetail(p provider.Provider) {
	if p.Model != "" {
		fmt.Printf("    model:       %s\n", p.Model)
	}
	if p.SmallModel != "" {
		fmt.Printf("    small model: %s\n", p.SmallModel)
	}
	for _, s := range p.McpServers {
		fmt.Printf("    mcp:         %s (%s)\n", s.Name, s.Command)
	}
	for k, v := range p.Metadata {
		fmt.Printf("    meta:        %s=%s\n", k, v)
	}
	fmt.Printf("    id:          %s\n", dimStyle.Render(p.ID))
}

// printProvidersJSON emits the list for scripting. API keys are masked even
// here; export exists for full backups.
func printProvidersJSON(providers []provider.Provider, current map[apptype.AppType]string) error {
	type listEntry struct {
		provider.Provider
		APIKey  string `json:"api_key"`
		Current bool   `json:"current"`
	}
	entries := make([]listEntry, len(providers))
	for i, p := range providers {
		entries[i] = listEntry{
			Provider: p,
			APIKey:   provider.MaskKey(p.APIKey),
			Current:  current[p.AppType] == p.ID,
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
