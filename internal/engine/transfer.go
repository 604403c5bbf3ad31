package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"ccswitch/internal/apperr"
	"ccswitch/internal/provider"
)

// exportVersion tags the export document format. Additive changes only;
// import rejects versions it does not know.
const exportVersion = 1

// exportDoc is the portable YAML envelope around a provider set.
type exportDoc struct {
	Version    int                 `yaml:"version"`
	ExportedAt time.Time           `yaml:"exported_at"`
	Providers  []provider.Provider `yaml:"providers"`
}

// Export serializes the providers the filter selects into a self-describing
// YAML document. API keys are exported in the clear; the document is for the
// user's own backup/transfer, not for display.
func (e *Engine) Export(f Filter) ([]byte, error) {
	providers, err := e.Match(f)
	if err != nil {
		return nil, err
	}
	doc := exportDoc{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Providers:  providers,
	}
	return yaml.Marshal(doc)
}

// ImportOptions control collision and identity handling on import.
type ImportOptions struct {
	// Overwrite replaces same-named providers instead of skipping them.
	Overwrite bool
	// KeepIDs preserves exported ids; by default every imported record gets
	// a fresh id so two stores never share identifiers by accident.
	KeepIDs bool
}

// Import reads an export document back into the store. A malformed entry is
// skipped and reported as failed, never partially written; the remaining
// entries proceed. Only an unreadable envelope fails the whole call.
func (e *Engine) Import(data []byte, opts ImportOptions) (Report, error) {
	var doc struct {
		Version   int         `yaml:"version"`
		Providers []yaml.Node `yaml:"providers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Report{}, fmt.Errorf("parse import document: %w", err)
	}
	if doc.Version != exportVersion {
		return Report{}, &apperr.ValidationError{
			Field:  "version",
			Reason: fmt.Sprintf("unsupported export version %d", doc.Version),
		}
	}

	var report Report
	for i, node := range doc.Providers {
		var p provider.Provider
		if err := node.Decode(&p); err != nil {
			report.fail("", fmt.Sprintf("entry %d", i+1), err)
			continue
		}
		if !opts.KeepIDs || p.ID == "" {
			p.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		e.upsert(&report, p, opts.Overwrite)
	}
	return report, nil
}
