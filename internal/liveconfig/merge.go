package liveconfig

import "ccswitch/internal/provider"

// Entry is one MCP server block of a live config file: the server name plus
// its dialect-neutral value. Values originating from the live file are kept
// verbatim so external edits survive a sync.
type Entry struct {
	Name  string
	Value map[string]any
}

// Merge reconciles the provider's declared MCP servers with the entries
// already present in a live config file, keyed by server name:
//
//   - declared entries come first, in declared order, overwriting any
//     same-named live entry
//   - live-only entries are appended untouched, in their original order
//
// The merge is pure; neither input is modified.
func Merge(declared []provider.McpServer, live []Entry) []Entry {
	declaredNames := make(map[string]bool, len(declared))
	merged := make([]Entry, 0, len(declared)+len(live))

	for _, s := range declared {
		declaredNames[s.Name] = true
		merged = append(merged, Entry{Name: s.Name, Value: serverValue(s)})
	}
	for _, e := range live {
		if !declaredNames[e.Name] {
			merged = append(merged, e)
		}
	}
	return merged
}

// serverValue renders a declared server spec into the generic block shape
// shared by every dialect.
func serverValue(s provider.McpServer) map[string]any {
	v := map[string]any{"command": s.Command}
	if len(s.Args) > 0 {
		args := make([]any, len(s.Args))
		for i, a := range s.Args {
			args[i] = a
		}
		v["args"] = args
	}
	if len(s.Env) > 0 {
		env := make(map[string]any, len(s.Env))
		for k, val := range s.Env {
			env[k] = val
		}
		v["env"] = env
	}
	return v
}
