package liveconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"ccswitch/internal/provider"
)

var errInvalidJSON = errors.New("not a JSON object")

// jsonDoc validates the raw live file as a JSON object, treating an absent
// or empty file as the minimal template.
func jsonDoc(original []byte) (string, error) {
	doc := string(original)
	if strings.TrimSpace(doc) == "" {
		return "{}", nil
	}
	if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
		return "", unparseable(errInvalidJSON)
	}
	return doc, nil
}

// setString sets a string value at path, or deletes the path when the value
// is empty so optional fields don't linger as empty strings.
func setString(doc, path, value string) (string, error) {
	if value == "" {
		return sjson.Delete(doc, path)
	}
	return sjson.Set(doc, path, value)
}

// mergeMcpJSON rewrites the MCP section at key with the name-keyed merge of
// the declared servers and whatever the live file already holds. Entries only
// present in the live file survive verbatim.
func mergeMcpJSON(doc, key string, declared []provider.McpServer) (string, error) {
	section := gjson.Get(doc, key)
	if section.Exists() && !section.IsObject() {
		return "", unparseable(fmt.Errorf("%s is not an object", key))
	}

	var live []Entry
	section.ForEach(func(k, v gjson.Result) bool {
		value, _ := v.Value().(map[string]any)
		live = append(live, Entry{Name: k.String(), Value: value})
		return true
	})

	merged := Merge(declared, live)
	if len(merged) == 0 && !section.Exists() {
		return doc, nil
	}

	raw, err := entriesRaw(merged)
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(doc, key, raw)
}

// entriesRaw renders merged entries as a JSON object preserving merge order.
func entriesRaw(entries []Entry) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return "", err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return "", fmt.Errorf("encode mcp server %q: %w", e.Name, err)
		}
		b.Write(name)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return b.String(), nil
}

// ---- Claude Code: ~/.claude/settings.json, credentials under env ----

func renderClaude(original []byte, p provider.Provider) ([]byte, error) {
	doc, err := jsonDoc(original)
	if err != nil {
		return nil, err
	}

	if doc, err = sjson.Set(doc, "env.ANTHROPIC_AUTH_TOKEN", p.APIKey); err != nil {
		return nil, err
	}
	// A lingering API key would shadow the auth token.
	if doc, err = sjson.Delete(doc, "env.ANTHROPIC_API_KEY"); err != nil {
		return nil, err
	}
	if doc, err = sjson.Set(doc, "env.ANTHROPIC_BASE_URL", p.BaseURL); err != nil {
		return nil, err
	}
	if doc, err = setString(doc, "env.ANTHROPIC_MODEL", p.Model); err != nil {
		return nil, err
	}
	if doc, err = setString(doc, "env.ANTHROPIC_SMALL_FAST_MODEL", p.SmallModel); err != nil {
		return nil, err
	}
	if doc, err = mergeMcpJSON(doc, "mcpServers", p.McpServers); err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func snapshotClaude(raw []byte) (Snapshot, error) {
	doc, err := jsonDoc(raw)
	if err != nil {
		return Snapshot{}, err
	}
	key := gjson.Get(doc, "env.ANTHROPIC_AUTH_TOKEN").String()
	if key == "" {
		key = gjson.Get(doc, "env.ANTHROPIC_API_KEY").String()
	}
	return Snapshot{
		APIKey:  key,
		BaseURL: gjson.Get(doc, "env.ANTHROPIC_BASE_URL").String(),
		Model:   gjson.Get(doc, "env.ANTHROPIC_MODEL").String(),
	}, nil
}

// ---- Gemini CLI: ~/.gemini/settings.json, flat camelCase keys ----

func renderGemini(original []byte, p provider.Provider) ([]byte, error) {
	doc, err := jsonDoc(original)
	if err != nil {
		return nil, err
	}

	if doc, err = sjson.Set(doc, "apiKey", p.APIKey); err != nil {
		return nil, err
	}
	if doc, err = sjson.Set(doc, "baseUrl", p.BaseURL); err != nil {
		return nil, err
	}
	if doc, err = setString(doc, "model", p.Model); err != nil {
		return nil, err
	}
	if doc, err = setString(doc, "smallModel", p.SmallModel); err != nil {
		return nil, err
	}
	if doc, err = mergeMcpJSON(doc, "mcpServers", p.McpServers); err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func snapshotGemini(raw []byte) (Snapshot, error) {
	doc, err := jsonDoc(raw)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		APIKey:  gjson.Get(doc, "apiKey").String(),
		BaseURL: gjson.Get(doc, "baseUrl").String(),
		Model:   gjson.Get(doc, "model").String(),
	}, nil
}

// ---- OpenCode: ~/.opencode/opencode.json, nested provider options ----

func renderOpenCode(original []byte, p provider.Provider) ([]byte, error) {
	doc, err := jsonDoc(original)
	if err != nil {
		return nil, err
	}

	if doc, err = sjson.Set(doc, "provider.ccswitch.options.apiKey", p.APIKey); err != nil {
		return nil, err
	}
	if doc, err = sjson.Set(doc, "provider.ccswitch.options.baseURL", p.BaseURL); err != nil {
		return nil, err
	}
	if doc, err = setString(doc, "model", p.Model); err != nil {
		return nil, err
	}
	if doc, err = setString(doc, "small_model", p.SmallModel); err != nil {
		return nil, err
	}
	if doc, err = mergeMcpJSON(doc, "mcpServers", p.McpServers); err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func snapshotOpenCode(raw []byte) (Snapshot, error) {
	doc, err := jsonDoc(raw)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		APIKey:  gjson.Get(doc, "provider.ccswitch.options.apiKey").String(),
		BaseURL: gjson.Get(doc, "provider.ccswitch.options.baseURL").String(),
		Model:   gjson.Get(doc, "model").String(),
	}, nil
}
