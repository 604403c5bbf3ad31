package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"ccswitch/internal/apptype"
	"ccswitch/internal/engine"
	"ccswitch/internal/liveconfig"
	"ccswitch/internal/speedtest"
	"ccswitch/internal/store"
)

// runtime bundles what every command needs for one invocation. Environment
// variables are resolved here and nowhere else; the engine only ever sees
// explicit paths.
type runtime struct {
	eng   *engine.Engine
	paths apptype.Paths
	st    *store.Store
}

func (r *runtime) close() {
	_ = r.st.Close()
}

// openRuntime resolves directories and opens the store.
//
//	CCSWITCH_HOME                overrides the home directory (tests)
//	CCSWITCH_CONFIG_DIR          overrides the registry directory
//	CCSWITCH_<APP>_CONFIG_DIR    overrides one app's config directory
func openRuntime() (*runtime, error) {
	home := os.Getenv("CCSWITCH_HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
	}

	paths := apptype.DefaultPaths(home)
	for _, app := range apptype.All() {
		paths = paths.WithDir(app, os.Getenv(app.DirEnvVar()))
	}

	st, err := store.Open(filepath.Join(configDir(home), "ccswitch.db"))
	if err != nil {
		return nil, fmt.Errorf("open provider store: %w", err)
	}

	return &runtime{
		eng:   engine.New(st, liveconfig.NewSyncer(paths), speedtest.New()),
		paths: paths,
		st:    st,
	}, nil
}

// configDir is where the registry database lives: CCSWITCH_CONFIG_DIR, then
// $XDG_CONFIG_HOME/cc-switch, then ~/.cc-switch.
func configDir(home string) string {
	if dir := os.Getenv("CCSWITCH_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cc-switch")
	}
	return filepath.Join(home, ".cc-switch")
}

// parseApps resolves command arguments to app types, defaulting to all of
// them when no argument is given.
func parseApps(args []string) ([]apptype.AppType, error) {
	if len(args) == 0 {
		return apptype.All(), nil
	}
	apps := make([]apptype.AppType, 0, len(args))
	for _, arg := range args {
		app, err := apptype.Parse(arg)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}
