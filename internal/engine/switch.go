package engine

import (
	"ccswitch/internal/apptype"
	"ccswitch/internal/provider"
)

// Add stores a new provider. The first provider added for an app becomes
// current immediately, live file included, so a fresh setup works without an
// explicit switch. Returns whether the provider was activated.
func (e *Engine) Add(p provider.Provider) (bool, error) {
	if err := e.store.Create(p); err != nil {
		return false, err
	}
	currentID, err := e.store.Current(p.AppType)
	if err != nil || currentID != "" {
		return false, err
	}
	if err := e.syncer.Write(p.AppType, p); err != nil {
		return false, err
	}
	if err := e.store.SetCurrent(p.AppType, p.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Switch activates the provider identified by ref (id, exact name, or unique
// name prefix) for app. The live file is written first; the store pointer
// moves only after the write lands, so "current" is never ahead of what is
// actually on disk. On any failure the prior pointer stays valid.
func (e *Engine) Switch(app apptype.AppType, ref string) (provider.Provider, error) {
	p, err := e.store.Find(app, ref)
	if err != nil {
		return provider.Provider{}, err
	}
	if err := e.syncer.Write(app, p); err != nil {
		return provider.Provider{}, err
	}
	if err := e.store.SetCurrent(app, p.ID); err != nil {
		return provider.Provider{}, err
	}
	return p, nil
}

// Edit patches one provider. Editing the currently active provider rewrites
// its app's live file so the change takes effect immediately.
func (e *Engine) Edit(app apptype.AppType, ref string, patch provider.Patch) (provider.Provider, error) {
	p, err := e.store.Find(app, ref)
	if err != nil {
		return provider.Provider{}, err
	}
	updated, err := e.store.Update(p.ID, patch)
	if err != nil {
		return provider.Provider{}, err
	}

	currentID, err := e.store.Current(app)
	if err != nil {
		return provider.Provider{}, err
	}
	if currentID == p.ID {
		if err := e.syncer.Write(app, updated); err != nil {
			return provider.Provider{}, err
		}
	}
	return updated, nil
}

// Remove deletes one provider. Deleting the active provider clears the
// app's current pointer; the live file is left as it is.
func (e *Engine) Remove(app apptype.AppType, ref string) (provider.Provider, error) {
	p, err := e.store.Find(app, ref)
	if err != nil {
		return provider.Provider{}, err
	}
	if err := e.store.Delete(p.ID); err != nil {
		return provider.Provider{}, err
	}
	return p, nil
}

// Resync rewrites app's live file from its current provider, repairing
// external edits or a file deleted since the last switch. Returns the
// provider written, or ok=false when no provider is active for app.
func (e *Engine) Resync(app apptype.AppType) (provider.Provider, bool, error) {
	p, ok, err := e.store.CurrentProvider(app)
	if err != nil || !ok {
		return provider.Provider{}, false, err
	}
	if err := e.syncer.Write(app, p); err != nil {
		return provider.Provider{}, false, err
	}
	return p, true, nil
}
