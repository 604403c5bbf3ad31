// Package cmd implements the ccswitch command line interface. Commands stay
// thin: they resolve environment overrides, open the engine, and render its
// results; all registry and live-file logic lives under internal/.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version information, injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information shown by --version.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "ccswitch",
	Short: "Provider switcher for AI assistant CLIs",
	Long: `ccswitch keeps a registry of API provider profiles for Claude Code,
Codex CLI, Gemini CLI and OpenCode, and activates one provider per app by
rewriting that app's own config file in place.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`ccswitch {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)
	return rootCmd.Execute()
}
