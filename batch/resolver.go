package batch

import (
	"context"
	"time"

	"github.com/evtable/evtable"
)

// DefaultResolveTimeout bounds a single URL derivation call.
const DefaultResolveTimeout = 30 * time.Second

// Resolver drives eligible URL-table rows through the URL derivation
// capability. The derivation workflow is one step shorter than extraction
// and is always sequential.
type Resolver struct {
	Resolver evtable.URLResolver

	// Limiter, if set, spaces out calls per host.
	Limiter *HostLimiter

	// Timeout bounds each derivation call. Zero means DefaultResolveTimeout.
	Timeout time.Duration
}

// Run derives the event site URL for every eligible row (checked and
// Uploaded) and returns the updated table. With zero eligible rows it
// returns the table unchanged and ErrNothingToDo. A single row's failure
// never aborts the run; cancelling the context stops it between rows.
func (r *Resolver) Run(ctx context.Context, table evtable.URLTable) (evtable.URLTable, *Result, error) {
	var eligible []int
	for i, item := range table.Items() {
		if item.Eligible() {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return table, nil, ErrNothingToDo
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	cur := table
	var res Result
	for _, idx := range eligible {
		if ctx.Err() != nil {
			break
		}

		item := cur.Items()[idx]

		derived, err := r.resolve(ctx, item.OriginalURL, timeout)
		if err != nil {
			if next, terr := cur.MarkFailed(idx, errorDescriptor(err)); terr == nil {
				cur = next
			}
			res.Failed++
			continue
		}
		if next, terr := cur.MarkExtracted(idx, derived); terr == nil {
			cur = next
		}
		res.Extracted++
	}

	return cur, &res, nil
}

func (r *Resolver) resolve(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx, url); err != nil {
			return "", err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return r.Resolver.Resolve(callCtx, url)
}
