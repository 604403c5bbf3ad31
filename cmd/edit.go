package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

func init() {
	rootCmd.AddCommand(editCmd)
	addEditFieldFlags(editCmd)
	editCmd.Flags().String("name", "", "rename the provider")
}

// addEditFieldFlags registers the editable-field flags shared by edit and
// batch edit.
func addEditFieldFlags(c *cobra.Command) {
	c.Flags().String("api-key", "", "new API key")
	c.Flags().String("base-url", "", "new base URL")
	c.Flags().String("model", "", "new model name (empty string clears it)")
	c.Flags().String("small-model", "", "new small model name (empty string clears it)")
}

// patchFromFlags builds a patch from whichever field flags were set. Unset
// flags leave the field untouched; explicitly empty values clear it.
func patchFromFlags(c *cobra.Command) provider.Patch {
	var patch provider.Patch
	grab := func(flag string, dst **string) {
		if c.Flags().Changed(flag) {
			v, _ := c.Flags().GetString(flag)
			*dst = &v
		}
	}
	grab("name", &patch.Name)
	grab("api-key", &patch.APIKey)
	grab("base-url", &patch.BaseURL)
	grab("model", &patch.Model)
	grab("small-model", &patch.SmallModel)
	return patch
}

var editCmd = &cobra.Command{
	Use:   "edit <app> <name-or-id>",
	Short: "Edit a provider profile",
	Long: `Edit fields of one provider. Editing the active provider rewrites the
app's config file immediately.

Example:
  ccswitch edit claude fast-api --model claude-opus-4-5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := apptype.Parse(args[0])
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

		p, err := rt.eng.Edit(app, args[1], patch)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Updated %q for %s", p.Name, app.DisplayName())))
		return nil
	},
}
