package evtable

import "context"

// Fetcher retrieves HTML documents from URLs. It backs the URL-derivation
// workflow and extraction capabilities that run over page content.
type Fetcher interface {
	// Fetch retrieves the document at the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}
