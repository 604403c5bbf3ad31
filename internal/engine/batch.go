package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ccswitch/internal/apperr"
	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

// SwitchAll activates the provider named name on every given app. Each app's
// switch is independent; an app with no provider of that name fails that item
// only.
func (e *Engine) SwitchAll(name string, apps []apptype.AppType) Report {
	var report Report
	for _, app := range apps {
		p, err := e.Switch(app, name)
		if err != nil {
			report.fail(app, name, err)
			continue
		}
		report.ok(app, p.Name, "switched")
	}
	return report
}

// ResyncAll rewrites the live file of every given app from its current
// provider. Apps with no active provider are reported as skipped.
func (e *Engine) ResyncAll(apps []apptype.AppType) Report {
	var report Report
	for _, app := range apps {
		p, ok, err := e.Resync(app)
		if err != nil {
			report.fail(app, "", err)
			continue
		}
		if !ok {
			report.skip(app, "", "no current provider")
			continue
		}
		report.ok(app, p.Name, "live config rewritten")
	}
	return report
}

// TestOptions bounds a batch liveness run.
type TestOptions struct {
	Concurrency int           // worker cap; DefaultTestConcurrency when <= 0
	Timeout     time.Duration // per-item budget; DefaultTestTimeout when <= 0
}

// TestAll checks every selected provider's endpoint concurrently. One slow or
// failing endpoint only costs its own item: each check gets its own timeout
// and the workers keep draining the rest.
func (e *Engine) TestAll(ctx context.Context, f Filter, opts TestOptions) (Report, error) {
	providers, err := e.Match(f)
	if err != nil {
		return Report{}, err
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultTestConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTestTimeout
	}

	items := make([]Item, len(providers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, p := range providers {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
			defer cancel()

			latency, err := e.tester.Test(itemCtx, p.BaseURL, p.APIKey)
			item := Item{App: p.AppType, Name: p.Name}
			if err != nil {
				lerr := &apperr.LivenessError{Provider: p.Name, Err: err}
				item.Status = StatusFailed
				item.Detail = lerr.Error()
			} else {
				item.Status = StatusOK
				item.Latency = latency
			}

			mu.Lock()
			items[i] = item
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return Report{Items: items}, nil
}

// CopyAll copies every provider of the source app type into each target app
// type as a new record. A name already present in a target is skipped unless
// overwrite is set; each target decides independently.
func (e *Engine) CopyAll(source apptype.AppType, targets []apptype.AppType, overwrite bool) (Report, error) {
	providers, err := e.store.List(source)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, target := range targets {
		if target == source {
			continue
		}
		for _, p := range providers {
			copied := provider.New(target, p.Name, p.APIKey, p.BaseURL)
			copied.Model = p.Model
			copied.SmallModel = p.SmallModel
			copied.McpServers = p.McpServers
			copied.Metadata = p.Metadata
			e.upsert(&report, copied, overwrite)
		}
	}
	return report, nil
}

// EditAll applies the patch to every provider the filter selects. Each update
// is independent; when an edited provider is currently active, its app's live
// file is rewritten so the edit takes effect immediately.
func (e *Engine) EditAll(f Filter, patch provider.Patch) (Report, error) {
	providers, err := e.Match(f)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, p := range providers {
		updated, err := e.store.Update(p.ID, patch)
		if err != nil {
			report.fail(p.AppType, p.Name, err)
			continue
		}

		currentID, err := e.store.Current(p.AppType)
		if err != nil {
			report.fail(p.AppType, p.Name, err)
			continue
		}
		if currentID == p.ID {
			if err := e.syncer.Write(p.AppType, updated); err != nil {
				report.fail(p.AppType, p.Name, err)
				continue
			}
		}
		report.ok(p.AppType, updated.Name, "updated")
	}
	return report, nil
}

// RemoveAll deletes every provider the filter selects. Deleting an active
// provider clears its app's current pointer; the live file is left alone.
func (e *Engine) RemoveAll(f Filter) (Report, error) {
	providers, err := e.Match(f)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, p := range providers {
		if err := e.store.Delete(p.ID); err != nil {
			report.fail(p.AppType, p.Name, err)
			continue
		}
		report.ok(p.AppType, p.Name, "removed")
	}
	return report, nil
}

// upsert creates the provider, replacing a same-named record when overwrite
// is set and skipping it otherwise.
func (e *Engine) upsert(report *Report, p provider.Provider, overwrite bool) {
	if err := p.Validate(); err != nil {
		report.fail(p.AppType, p.Name, err)
		return
	}

	existing, err := e.store.FindByName(p.AppType, p.Name)
	switch {
	case err == nil:
		if !overwrite {
			report.skip(p.AppType, p.Name, "name exists")
			return
		}
		if _, err := e.store.Update(existing.ID, fullPatch(p)); err != nil {
			report.fail(p.AppType, p.Name, err)
			return
		}
		report.ok(p.AppType, p.Name, "overwritten")
	case errors.Is(err, apperr.ErrNotFound):
		if err := e.store.Create(p); err != nil {
			report.fail(p.AppType, p.Name, err)
			return
		}
		report.ok(p.AppType, p.Name, "created")
	default:
		report.fail(p.AppType, p.Name, err)
	}
}

// fullPatch turns a provider record into a patch that overwrites every
// editable field of an existing record.
func fullPatch(p provider.Provider) provider.Patch {
	return provider.Patch{
		Name:       &p.Name,
		APIKey:     &p.APIKey,
		BaseURL:    &p.BaseURL,
		Model:      &p.Model,
		SmallModel: &p.SmallModel,
		McpServers: &p.McpServers,
		Metadata:   &p.Metadata,
	}
}
