package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/evtable/evtable"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single extraction call. The external service can
// take tens of seconds on heavy pages.
const DefaultTimeout = 60 * time.Second

// Processor drives eligible work-table rows through the extraction
// capability. The baseline is strictly sequential in index order, a
// deliberate backpressure choice against a metered external service;
// Concurrency > 1 opts into a bounded worker pool.
type Processor struct {
	Extractor evtable.Extractor

	// Limiter, if set, spaces out calls per host.
	Limiter *HostLimiter

	// Concurrency bounds the number of in-flight extraction calls.
	// Values <= 1 mean sequential processing.
	Concurrency int

	// Timeout bounds each extraction call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result holds the outcome of a processor run.
type Result struct {
	Extracted int
	Failed    int
}

// EventType indicates the type of progress event.
type EventType int

// Progress event types.
const (
	EventStarted EventType = iota
	EventItemStarted
	EventItemCompleted
	EventItemFailed
	EventFinished
)

// Event reports progress during a run. Table is the snapshot after the
// transition the event describes, so a live view can re-render per item.
type Event struct {
	Type      EventType
	Index     int
	URL       string
	Err       error
	Completed int
	Total     int
	Table     evtable.Table
}

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event Event)

// Run processes every eligible row (checked and NotStarted) and returns the
// updated table. With zero eligible rows it returns the table unchanged and
// ErrNothingToDo without touching the extraction service.
//
// Each row is marked InProgress before its extraction call is issued, then
// Done (with the normalized record and raw text) or Failed (with an error
// descriptor); one row's failure never aborts the batch. Transitions are
// applied atomically one completed item at a time, each on a fresh table
// snapshot. Cancelling the context stops the run between items: rows whose
// processing has not begun remain NotStarted.
func (p *Processor) Run(ctx context.Context, table evtable.Table, progress ProgressFunc) (evtable.Table, *Result, error) {
	var eligible []int
	for i, item := range table.Items() {
		if item.Eligible() {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return table, nil, ErrNothingToDo
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	if progress != nil {
		progress(Event{Type: EventStarted, Total: len(eligible), Table: table})
	}

	// cur and the result are guarded by mu; every transition publishes a
	// fresh snapshot while holding it.
	var (
		mu  sync.Mutex
		cur = table
		res Result
	)
	completed := 0

	var g errgroup.Group
	g.SetLimit(concurrency)

	for _, idx := range eligible {
		// Cooperative cancellation point between items.
		if ctx.Err() != nil {
			break
		}

		idx := idx
		g.Go(func() error {
			// A worker may have been queued before cancellation; never
			// start a row once the run is canceled so it stays NotStarted.
			if ctx.Err() != nil {
				return nil
			}
			mu.Lock()
			next, err := cur.MarkInProgress(idx)
			if err != nil {
				mu.Unlock()
				return nil
			}
			cur = next
			url := mustItem(cur, idx).URL
			if progress != nil {
				progress(Event{Type: EventItemStarted, Index: idx, URL: url, Completed: completed, Total: len(eligible), Table: cur})
			}
			mu.Unlock()

			rec, rawText, extractErr := p.extract(ctx, url, timeout)

			mu.Lock()
			defer mu.Unlock()
			completed++
			if extractErr != nil {
				if next, err := cur.MarkFailed(idx, errorDescriptor(extractErr)); err == nil {
					cur = next
				}
				res.Failed++
				if progress != nil {
					progress(Event{Type: EventItemFailed, Index: idx, URL: url, Err: extractErr, Completed: completed, Total: len(eligible), Table: cur})
				}
				return nil
			}
			if next, err := cur.MarkDone(idx, rec, rawText); err == nil {
				cur = next
			}
			res.Extracted++
			if progress != nil {
				progress(Event{Type: EventItemCompleted, Index: idx, URL: url, Completed: completed, Total: len(eligible), Table: cur})
			}
			return nil
		})
	}

	_ = g.Wait()

	if progress != nil {
		progress(Event{Type: EventFinished, Completed: completed, Total: len(eligible), Table: cur})
	}

	return cur, &res, nil
}

// extract performs a single rate-limited, bounded extraction call and
// normalizes the result.
func (p *Processor) extract(ctx context.Context, url string, timeout time.Duration) (*evtable.Record, string, error) {
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx, url); err != nil {
			return nil, "", err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ext, err := p.Extractor.Extract(callCtx, url)
	if err != nil {
		return nil, "", err
	}

	rec := evtable.NewRecord(url, ext.Fields).Normalize()
	rec.RawText = ext.RawText
	if err := rec.Validate(); err != nil {
		return nil, "", err
	}
	return rec, ext.RawText, nil
}

// errorDescriptor turns an extraction error into the message recorded on
// the failed row: displayable to an operator, no internal error objects.
func errorDescriptor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "extraction call timed out"
	case errors.Is(err, context.Canceled):
		return "extraction canceled"
	}
	if code := evtable.ErrorCode(err); code != evtable.EINTERNAL {
		return evtable.ErrorMessage(err)
	}
	return err.Error()
}

// mustItem reads a row that is known to exist.
func mustItem(t evtable.Table, i int) evtable.WorkItem {
	item, _ := t.Item(i)
	return item
}
