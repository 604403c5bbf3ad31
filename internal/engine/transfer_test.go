package engine

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

func TestExportImportRoundTrip(t *testing.T) {
	src, _, _ := newTestEngine(t)
	p1 := addProvider(t, src, apptype.Claude, "prod", "https://api.example.com")
	p2 := addProvider(t, src, apptype.Codex, "prod", "https://codex.example.com")
	patch := provider.Patch{Metadata: &map[string]string{"region": "eu", "team": "infra"}}
	if _, err := src.Store().Update(p2.ID, patch); err != nil {
		t.Fatalf("update: %v", err)
	}

	data, err := src.Export(Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(data), "version: 1") {
		t.Errorf("document not tagged:\n%s", data)
	}

	dst, _, _ := newTestEngine(t)
	report, err := dst.Import(data, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Succeeded() != 2 || report.Failed() != 0 || report.Skipped() != 0 {
		t.Fatalf("report: %+v", report.Items)
	}

	got, err := dst.Store().FindByName(apptype.Claude, "prod")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.APIKey != p1.APIKey || got.BaseURL != p1.BaseURL || got.Model != p1.Model {
		t.Errorf("round trip differs: %+v", got)
	}
	// Fresh ids by default; two stores must not share identifiers.
	if got.ID == p1.ID {
		t.Error("import kept the exported id")
	}

	meta, err := dst.Store().FindByName(apptype.Codex, "prod")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if meta.Metadata["team"] != "infra" {
		t.Errorf("metadata lost: %+v", meta.Metadata)
	}
}

func TestImportKeepIDs(t *testing.T) {
	src, _, _ := newTestEngine(t)
	p := addProvider(t, src, apptype.Gemini, "g1", "https://g.example.com")
	data, err := src.Export(Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst, _, _ := newTestEngine(t)
	if _, err := dst.Import(data, ImportOptions{KeepIDs: true}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := dst.Store().Get(p.ID); err != nil {
		t.Errorf("exported id not preserved: %v", err)
	}
}

func TestReimportSkipsExistingNames(t *testing.T) {
	e, _, _ := newTestEngine(t)
	addProvider(t, e, apptype.Claude, "a", "https://a.example.com")
	addProvider(t, e, apptype.Claude, "b", "https://b.example.com")

	data, err := e.Export(Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	// Same store: every name collides. Skips, not errors.
	report, err := e.Import(data, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Skipped() != 2 || report.Failed() != 0 {
		t.Fatalf("report: %+v", report.Items)
	}
	if err := report.Err(); err != nil {
		t.Errorf("skips reported as failure: %v", err)
	}

	// With overwrite the collisions are replaced instead.
	report, err = e.Import(data, ImportOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("import overwrite: %v", err)
	}
	if report.Succeeded() != 2 || report.Skipped() != 0 {
		t.Fatalf("report: %+v", report.Items)
	}
}

func TestImportSkipsMalformedEntries(t *testing.T) {
	doc := `version: 1
providers:
  - app_type: claude
    name: good
    api_key: sk-good-1234567890
    base_url: https://good.example.com
  - just-a-scalar
  - app_type: claude
    name: bad-url
    api_key: sk-bad-1234567890
    base_url: not-a-url
  - app_type: claude
    name: also-good
    api_key: sk-also-1234567890
    base_url: https://also.example.com
`
	e, _, _ := newTestEngine(t)
	report, err := e.Import([]byte(doc), ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Succeeded() != 2 || report.Failed() != 2 {
		t.Fatalf("report: %+v", report.Items)
	}

	// The malformed entries were skipped whole, the rest landed.
	listed, err := e.Store().List(apptype.Claude)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].Name != "good" || listed[1].Name != "also-good" {
		t.Errorf("imported: %+v", listed)
	}
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if _, err := e.Import([]byte("version: 99\nproviders: []\n"), ImportOptions{}); err == nil {
		t.Error("unknown version accepted")
	}
	if _, err := e.Import([]byte("{invalid yaml"), ImportOptions{}); err == nil {
		t.Error("unreadable envelope accepted")
	}
}

func TestExportFilterScopesDocument(t *testing.T) {
	e, _, _ := newTestEngine(t)
	addProvider(t, e, apptype.Claude, "c1", "https://c.example.com")
	addProvider(t, e, apptype.Codex, "x1", "https://x.example.com")

	data, err := e.Export(Filter{App: apptype.Codex})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc exportDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Providers) != 1 || doc.Providers[0].Name != "x1" {
		t.Errorf("scoped export: %+v", doc.Providers)
	}
}
