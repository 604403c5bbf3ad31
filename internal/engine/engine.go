// Package engine coordinates the provider store and the live-config syncer:
// single switches, status/drift reads, and the batch operations built on top
// of them. Batch operations report per-item outcomes and never abort on the
// first failure.
package engine

import (
	"context"
	"strings"
	"time"

	"ccswitch/internal/apptype"
	"ccswitch/internal/liveconfig"
	"ccswitch/internal/provider"
	"ccswitch/internal/store"
)

// Batch test defaults; flags may override both.
const (
	DefaultTestConcurrency = 4
	DefaultTestTimeout     = 10 * time.Second
)

// Tester is the external liveness-check collaborator. It reports how long
// the endpoint took to answer, or why it did not.
type Tester interface {
	Test(ctx context.Context, baseURL, apiKey string) (time.Duration, error)
}

// Engine ties the store, the syncer and the liveness tester together. One
// Engine serves one CLI invocation.
type Engine struct {
	store  *store.Store
	syncer *liveconfig.Syncer
	tester Tester
}

func New(st *store.Store, sy *liveconfig.Syncer, tester Tester) *Engine {
	return &Engine{store: st, syncer: sy, tester: tester}
}

// Store exposes the underlying store for plain CRUD commands.
func (e *Engine) Store() *store.Store { return e.store }

// Filter selects providers for batch operations. Zero value matches all.
type Filter struct {
	App  apptype.AppType // restrict to one app type; "" matches all
	Name string          // case-insensitive name substring; "" matches all
}

// Match lists the providers the filter selects, in insertion order.
func (e *Engine) Match(f Filter) ([]provider.Provider, error) {
	listed, err := e.store.List(f.App)
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		return listed, nil
	}
	needle := strings.ToLower(f.Name)
	matched := listed[:0:0]
	for _, p := range listed {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// AppStatus is the per-app view the status command renders: the store's
// authoritative current provider next to the advisory live-file snapshot.
type AppStatus struct {
	App     apptype.AppType
	Current *provider.Provider
	Live    liveconfig.Snapshot
	LiveErr error
	Drift   bool
}

// Status reads store pointer and live file for each app. Live-file problems
// are carried per app, not returned, so one corrupt file does not hide the
// other apps' status.
func (e *Engine) Status(apps []apptype.AppType) ([]AppStatus, error) {
	statuses := make([]AppStatus, 0, len(apps))
	for _, app := range apps {
		st := AppStatus{App: app}

		current, ok, err := e.store.CurrentProvider(app)
		if err != nil {
			return nil, err
		}
		if ok {
			st.Current = &current
		}

		st.Live, st.LiveErr = e.syncer.ReadCurrent(app)
		if ok && st.LiveErr == nil && st.Live.Exists {
			st.Drift = st.Live.APIKey != current.APIKey || st.Live.BaseURL != current.BaseURL
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
