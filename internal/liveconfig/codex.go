package liveconfig

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"ccswitch/internal/provider"
)

// Codex CLI keeps its config in ~/.codex/config.toml: flat credential keys at
// the top level plus one [mcp_servers.NAME] table per server.

// mcpTableHeader matches the table headers we own, bare or quoted, so the
// original entry order can be recovered (TOML unmarshals into unordered maps).
var mcpTableHeader = regexp.MustCompile(`(?m)^\s*\[mcp_servers\.(?:"([^"]+)"|([^\]".]+))\]`)

func renderCodex(original []byte, p provider.Provider) ([]byte, error) {
	doc := map[string]any{}
	if strings.TrimSpace(string(original)) != "" {
		if err := toml.Unmarshal(original, &doc); err != nil {
			return nil, unparseable(err)
		}
	}

	doc["api_key"] = p.APIKey
	doc["base_url"] = p.BaseURL
	setTomlString(doc, "model", p.Model)
	setTomlString(doc, "small_model", p.SmallModel)

	live, err := liveCodexEntries(doc, original)
	if err != nil {
		return nil, err
	}
	merged := Merge(p.McpServers, live)
	delete(doc, "mcp_servers")

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, err
	}

	// Tables append after the top-level keys; one marshal per entry keeps
	// the merge order, which a single map marshal would sort away. Each
	// chunk starts with a bare [mcp_servers] parent header that must not
	// repeat, so it is dropped; the dotted headers imply it.
	var b strings.Builder
	b.Write(out)
	for _, e := range merged {
		chunk, err := toml.Marshal(map[string]any{"mcp_servers": map[string]any{e.Name: e.Value}})
		if err != nil {
			return nil, fmt.Errorf("encode mcp server %q: %w", e.Name, err)
		}
		chunk = bytes.TrimPrefix(chunk, []byte("[mcp_servers]\n"))
		if !strings.HasSuffix(b.String(), "\n\n") {
			b.WriteByte('\n')
		}
		b.Write(chunk)
	}
	return []byte(b.String()), nil
}

func snapshotCodex(raw []byte) (Snapshot, error) {
	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		APIKey:  tomlString(doc, "api_key"),
		BaseURL: tomlString(doc, "base_url"),
		Model:   tomlString(doc, "model"),
	}, nil
}

// liveCodexEntries pulls the existing mcp_servers tables out of the decoded
// document, ordered the way their headers appear in the original text.
func liveCodexEntries(doc map[string]any, original []byte) ([]Entry, error) {
	section, ok := doc["mcp_servers"]
	if !ok {
		return nil, nil
	}
	tables, ok := section.(map[string]any)
	if !ok {
		return nil, unparseable(fmt.Errorf("mcp_servers is not a table"))
	}

	var order []string
	seen := make(map[string]bool, len(tables))
	for _, m := range mcpTableHeader.FindAllStringSubmatch(string(original), -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if _, exists := tables[name]; exists && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	// Dotted-key definitions don't produce headers; pick up any stragglers.
	var rest []string
	for name := range tables {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	entries := make([]Entry, 0, len(order))
	for _, name := range order {
		value, _ := tables[name].(map[string]any)
		entries = append(entries, Entry{Name: name, Value: value})
	}
	return entries, nil
}

func setTomlString(doc map[string]any, key, value string) {
	if value == "" {
		delete(doc, key)
		return
	}
	doc[key] = value
}

func tomlString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}
