package apptype

import (
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	cases := map[string]AppType{
		"claude":      Claude,
		"Claude":      Claude,
		"claude-code": Claude,
		"codex":       Codex,
		"codex_cli":   Codex,
		"gemini-cli":  Gemini,
		"OpenCode":    OpenCode,
		"open-code":   OpenCode,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := Parse("cursor"); err == nil {
		t.Error("Parse(cursor) should fail")
	}
}

func TestDialect(t *testing.T) {
	for _, a := range All() {
		want := DialectJSON
		if a == Codex {
			want = DialectTOML
		}
		if a.Dialect() != want {
			t.Errorf("%s dialect = %v, want %v", a, a.Dialect(), want)
		}
	}
}

func TestPaths(t *testing.T) {
	p := DefaultPaths("/home/u")

	if got := p.LiveConfigPath(Claude); got != filepath.Join("/home/u", ".claude", "settings.json") {
		t.Errorf("claude live path = %s", got)
	}
	if got := p.LiveConfigPath(Codex); got != filepath.Join("/home/u", ".codex", "config.toml") {
		t.Errorf("codex live path = %s", got)
	}
	if got := p.LiveConfigPath(OpenCode); got != filepath.Join("/home/u", ".opencode", "opencode.json") {
		t.Errorf("opencode live path = %s", got)
	}

	override := p.WithDir(Gemini, "/tmp/gem")
	if got := override.LiveConfigPath(Gemini); got != filepath.Join("/tmp/gem", "settings.json") {
		t.Errorf("gemini override path = %s", got)
	}
	// Original value untouched
	if got := p.LiveConfigPath(Gemini); got != filepath.Join("/home/u", ".gemini", "settings.json") {
		t.Errorf("gemini default path mutated: %s", got)
	}

	if got := p.WithDir(Gemini, "  ").LiveConfigPath(Gemini); got != p.LiveConfigPath(Gemini) {
		t.Errorf("blank override should be ignored, got %s", got)
	}
}

func TestDirEnvVar(t *testing.T) {
	if got := Claude.DirEnvVar(); got != "CCSWITCH_CLAUDE_CONFIG_DIR" {
		t.Errorf("env var = %s", got)
	}
	if got := OpenCode.DirEnvVar(); got != "CCSWITCH_OPENCODE_CONFIG_DIR" {
		t.Errorf("env var = %s", got)
	}
}
