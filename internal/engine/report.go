package engine

import (
	"fmt"
	"time"

	"ccswitch/internal/apperr"
	"ccswitch/internal/apptype"
)

// ItemStatus is the per-item outcome of a batch operation.
type ItemStatus string

const (
	StatusOK      ItemStatus = "ok"
	StatusFailed  ItemStatus = "failed"
	StatusSkipped ItemStatus = "skipped"
)

// Item is one line of a batch report.
type Item struct {
	App     apptype.AppType
	Name    string
	Status  ItemStatus
	Detail  string
	Latency time.Duration
}

// Report aggregates the per-item outcomes of a batch operation. A failed
// item never aborts the batch; callers inspect the report for detail.
type Report struct {
	Items []Item
}

func (r *Report) ok(app apptype.AppType, name, detail string) {
	r.Items = append(r.Items, Item{App: app, Name: name, Status: StatusOK, Detail: detail})
}

func (r *Report) fail(app apptype.AppType, name string, err error) {
	r.Items = append(r.Items, Item{App: app, Name: name, Status: StatusFailed, Detail: err.Error()})
}

func (r *Report) skip(app apptype.AppType, name, detail string) {
	r.Items = append(r.Items, Item{App: app, Name: name, Status: StatusSkipped, Detail: detail})
}

// Attempted counts every item the batch touched, including skips.
func (r *Report) Attempted() int { return len(r.Items) }

func (r *Report) count(status ItemStatus) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Succeeded() int { return r.count(StatusOK) }
func (r *Report) Failed() int    { return r.count(StatusFailed) }
func (r *Report) Skipped() int   { return r.count(StatusSkipped) }

// Err reports partial failure as an error for callers that want one exit
// path. The per-item detail stays in the report.
func (r *Report) Err() error {
	if n := r.Failed(); n > 0 {
		return fmt.Errorf("%d of %d items: %w", n, r.Attempted(), apperr.ErrPartialFailure)
	}
	return nil
}
