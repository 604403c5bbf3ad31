// Package apptype defines the closed set of supported AI CLI applications
// and the static registry mapping each one to its live-config file.
package apptype

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AppType identifies one supported external CLI tool.
type AppType string

const (
	Claude   AppType = "claude"
	Codex    AppType = "codex"
	Gemini   AppType = "gemini"
	OpenCode AppType = "opencode"
)

// All returns every supported app type in canonical order.
func All() []AppType {
	return []AppType{Claude, Codex, Gemini, OpenCode}
}

// Parse resolves a user-supplied app name, accepting common aliases.
func Parse(s string) (AppType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "claude", "claude-code", "claude_code":
		return Claude, nil
	case "codex", "codex-cli", "codex_cli":
		return Codex, nil
	case "gemini", "gemini-cli", "gemini_cli":
		return Gemini, nil
	case "opencode", "open-code", "open_code":
		return OpenCode, nil
	default:
		return "", fmt.Errorf("unknown app type: %q", s)
	}
}

func (a AppType) String() string { return string(a) }

// Valid reports whether a is one of the supported app types.
func (a AppType) Valid() bool {
	switch a {
	case Claude, Codex, Gemini, OpenCode:
		return true
	}
	return false
}

// DisplayName returns the human-facing product name.
func (a AppType) DisplayName() string {
	switch a {
	case Claude:
		return "Claude Code"
	case Codex:
		return "Codex CLI"
	case Gemini:
		return "Gemini CLI"
	case OpenCode:
		return "OpenCode"
	}
	return string(a)
}

// Dialect is the on-disk serialization format of an app's live config.
type Dialect int

const (
	DialectJSON Dialect = iota
	DialectTOML
)

// Dialect returns the serialization dialect of the app's live config file.
func (a AppType) Dialect() Dialect {
	if a == Codex {
		return DialectTOML
	}
	return DialectJSON
}

// DirEnvVar names the environment variable that overrides the app's config
// directory. The surrounding CLI reads it; the engine only sees Paths.
func (a AppType) DirEnvVar() string {
	return "CCSWITCH_" + strings.ToUpper(string(a)) + "_CONFIG_DIR"
}

// liveFileName is the config file each tool reads inside its config dir.
func (a AppType) liveFileName() string {
	switch a {
	case Codex:
		return "config.toml"
	case OpenCode:
		return "opencode.json"
	default:
		return "settings.json"
	}
}

// defaultDirName is the per-app dotted directory under the user's home.
func (a AppType) defaultDirName() string {
	return "." + string(a)
}

// Paths holds the resolved config directory for every app type. It is an
// explicit value threaded through the engine so tests run against isolated
// directories instead of ambient process state.
type Paths struct {
	dirs map[AppType]string
}

// DefaultPaths returns the documented default directories under home.
func DefaultPaths(home string) Paths {
	dirs := make(map[AppType]string, len(All()))
	for _, a := range All() {
		dirs[a] = filepath.Join(home, a.defaultDirName())
	}
	return Paths{dirs: dirs}
}

// WithDir returns a copy of p with the directory for app replaced. Empty
// overrides are ignored.
func (p Paths) WithDir(app AppType, dir string) Paths {
	if strings.TrimSpace(dir) == "" {
		return p
	}
	dirs := make(map[AppType]string, len(p.dirs))
	for k, v := range p.dirs {
		dirs[k] = v
	}
	dirs[app] = dir
	return Paths{dirs: dirs}
}

// Dir returns the config directory for app.
func (p Paths) Dir(app AppType) string {
	return p.dirs[app]
}

// LiveConfigPath returns the full path of the app's live config file.
func (p Paths) LiveConfigPath(app AppType) string {
	return filepath.Join(p.dirs[app], app.liveFileName())
}
