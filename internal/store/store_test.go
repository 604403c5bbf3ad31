package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"ccswitch/internal/apperr"
	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProvider(app apptype.AppType, name string) provider.Provider {
	p := provider.New(app, name, "sk-test-1234567890", "https://api.example.com")
	p.Model = "claude-sonnet-4-5"
	p.McpServers = []provider.McpServer{
		{Name: "fs", Command: "npx", Args: []string{"-y", "@mcp/fs"}, Env: map[string]string{"ROOT": "/"}},
	}
	p.Metadata = map[string]string{"region": "eu"}
	return p
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	p := testProvider(apptype.Claude, "fast-api")

	if err := s.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != p.Name || got.APIKey != p.APIKey || got.BaseURL != p.BaseURL ||
		got.Model != p.Model || got.AppType != p.AppType {
		t.Errorf("fetched record differs: %+v", got)
	}
	if !reflect.DeepEqual(got.McpServers, p.McpServers) {
		t.Errorf("mcp servers differ: %+v", got.McpServers)
	}
	if !reflect.DeepEqual(got.Metadata, p.Metadata) {
		t.Errorf("metadata differs: %+v", got.Metadata)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("created_at differs: %v vs %v", got.CreatedAt, p.CreatedAt)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	s := openTestStore(t)

	if err := s.Create(testProvider(apptype.Claude, "dup")); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.Create(testProvider(apptype.Claude, "dup"))
	if !errors.Is(err, apperr.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	// Same name under another app type is fine.
	if err := s.Create(testProvider(apptype.Codex, "dup")); err != nil {
		t.Errorf("same name, other app: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FindByName(apptype.Claude, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindResolution(t *testing.T) {
	s := openTestStore(t)
	p1 := testProvider(apptype.Claude, "production")
	p2 := testProvider(apptype.Claude, "proxy-eu")
	for _, p := range []provider.Provider{p1, p2} {
		if err := s.Create(p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if got, err := s.Find(apptype.Claude, p1.ID); err != nil || got.ID != p1.ID {
		t.Errorf("find by id: %v, %v", got.ID, err)
	}
	if got, err := s.Find(apptype.Claude, "proxy-eu"); err != nil || got.ID != p2.ID {
		t.Errorf("find by name: %v, %v", got.ID, err)
	}
	if got, err := s.Find(apptype.Claude, "prod"); err != nil || got.ID != p1.ID {
		t.Errorf("find by unique prefix: %v, %v", got.ID, err)
	}
	if _, err := s.Find(apptype.Claude, "pro"); err == nil {
		t.Error("ambiguous prefix should fail")
	}
	if _, err := s.Find(apptype.Codex, "production"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("wrong app scope should be NotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	p := testProvider(apptype.Gemini, "g1")
	if err := s.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}

	model := "gemini-2.5-pro"
	updated, err := s.Update(p.ID, provider.Patch{Model: &model})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Model != model {
		t.Errorf("model = %s", updated.Model)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) {
		t.Error("updated_at not bumped")
	}

	got, err := s.Get(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Model != model {
		t.Errorf("persisted model = %s", got.Model)
	}
}

func TestUpdateRenameCollision(t *testing.T) {
	s := openTestStore(t)
	p1 := testProvider(apptype.Gemini, "a")
	p2 := testProvider(apptype.Gemini, "b")
	for _, p := range []provider.Provider{p1, p2} {
		if err := s.Create(p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	name := "a"
	if _, err := s.Update(p2.ID, provider.Patch{Name: &name}); !errors.Is(err, apperr.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	// Failed update must not be partially applied.
	got, _ := s.Get(p2.ID)
	if got.Name != "b" {
		t.Errorf("name changed despite failure: %s", got.Name)
	}

	if _, err := s.Update("missing", provider.Patch{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteClearsCurrentPointer(t *testing.T) {
	s := openTestStore(t)
	p := testProvider(apptype.Claude, "active")
	if err := s.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.SetCurrent(apptype.Claude, p.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}

	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	id, err := s.Current(apptype.Claude)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if id != "" {
		t.Errorf("dangling pointer: %s", id)
	}

	if err := s.Delete(p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete missing: %v", err)
	}
}

func TestSetCurrentRejectsWrongAppType(t *testing.T) {
	s := openTestStore(t)
	p := testProvider(apptype.Claude, "c1")
	if err := s.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.SetCurrent(apptype.Codex, p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetCurrent(apptype.Claude, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		if err := s.Create(testProvider(apptype.Codex, n)); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
	if err := s.Create(testProvider(apptype.Claude, "other-app")); err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := s.List(apptype.Codex)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed %d providers", len(listed))
	}
	for i, n := range names {
		if listed[i].Name != n {
			t.Errorf("position %d = %s, want %s", i, listed[i].Name, n)
		}
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("listed %d providers in total", len(all))
	}
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ccswitch.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := testProvider(apptype.OpenCode, "persisted")
	if err := s.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen and verify the record survived.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(p.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Name != "persisted" {
		t.Errorf("name = %s", got.Name)
	}
}
