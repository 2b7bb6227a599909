// Package goquery provides a goquery-backed implementation of
// evtable.URLResolver. It derives the real event site URL from an event
// listing page.
package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/evtable/evtable"
)

// iframeSelector matches the embedded event website frame on listing pages.
const iframeSelector = `iframe[title="embedded event's website"]`

// Ensure Resolver implements evtable.URLResolver at compile time.
var _ evtable.URLResolver = (*Resolver)(nil)

// Resolver derives event site URLs from listing pages. The derivation chain
// is: embedded-website iframe src, then a "Visit" link, then a guess built
// from the listing URL's slug.
type Resolver struct {
	fetcher evtable.Fetcher
}

// NewResolver creates a new Resolver backed by the given page fetcher.
func NewResolver(fetcher evtable.Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve fetches the listing page and derives the event site URL.
func (r *Resolver) Resolve(ctx context.Context, listingURL string) (string, error) {
	html, err := r.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", evtable.Errorf(evtable.EINVALID, "failed to parse HTML for %s: %v", listingURL, err)
	}

	if src, ok := doc.Find(iframeSelector).First().Attr("src"); ok && src != "" {
		return src, nil
	}

	if href := visitLink(doc); href != "" {
		return href, nil
	}

	if guess := slugGuess(listingURL); guess != "" {
		return guess, nil
	}

	return "", evtable.Errorf(evtable.ENOTFOUND, "unable to derive event URL from %s", listingURL)
}

// visitLink returns the href of the first anchor whose text is exactly
// "Visit".
func visitLink(doc *goquery.Document) string {
	var href string
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.TrimSpace(sel.Text()) != "Visit" {
			return true
		}
		if h, ok := sel.Attr("href"); ok && h != "" {
			href = h
			return false
		}
		return true
	})
	return href
}

// slugGuess builds a last-resort URL from the listing path slug: the final
// path segment minus its trailing id token, as a .com domain.
func slugGuess(listingURL string) string {
	u, err := url.Parse(listingURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	slug := segments[len(segments)-1]
	parts := strings.Split(slug, "-")
	if len(parts) < 2 {
		return ""
	}
	name := strings.Join(parts[:len(parts)-1], "-")
	if name == "" {
		return ""
	}
	return "https://" + name + ".com"
}
