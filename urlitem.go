package evtable

import (
	"context"
	"encoding/json"
)

// URLStatus represents the lifecycle state of a URLItem. The derivation
// workflow is one step shorter than extraction:
//
//	Uploaded -> {Extracted, Failed}
//	Extracted -> Forwarded
type URLStatus string

// URLStatus constants for URLItem.
const (
	URLStatusUploaded  URLStatus = "uploaded"
	URLStatusExtracted URLStatus = "extracted"
	URLStatusForwarded URLStatus = "forwarded"
	URLStatusFailed    URLStatus = "failed"
)

// String returns a human-readable label for the status.
func (s URLStatus) String() string {
	switch s {
	case URLStatusUploaded:
		return "Uploaded"
	case URLStatusExtracted:
		return "Extracted"
	case URLStatusForwarded:
		return "Forwarded"
	case URLStatusFailed:
		return "Failed"
	}
	return string(s)
}

// CanTransition reports whether moving from s to next is legal.
func (s URLStatus) CanTransition(next URLStatus) bool {
	switch s {
	case URLStatusUploaded:
		return next == URLStatusExtracted || next == URLStatusFailed
	case URLStatusExtracted:
		return next == URLStatusForwarded
	}
	return false
}

// URLItem is one row of the URL-derivation table: a listing-page URL and the
// real event site URL derived from it.
type URLItem struct {
	OriginalURL string    `json:"originalUrl"`
	DerivedURL  string    `json:"derivedUrl,omitempty"`
	Status      URLStatus `json:"status"`
	Err         string    `json:"err,omitempty"`
	Checked     bool      `json:"checked"`
}

// Eligible reports whether the item can be picked up by the resolver.
func (u *URLItem) Eligible() bool {
	return u.Checked && u.Status == URLStatusUploaded
}

// URLResolver derives the real event site URL from a listing-page URL.
type URLResolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// URLTable is the ordered collection backing the URL-derivation workflow.
// Like Table it has value semantics: mutations return new snapshots.
type URLTable struct {
	items []URLItem
}

// NewURLTable returns a URLTable seeded with the given items.
func NewURLTable(items ...URLItem) URLTable {
	return URLTable{items: append([]URLItem(nil), items...)}
}

// Len returns the number of rows.
func (t URLTable) Len() int { return len(t.items) }

// Items returns a copy of all rows.
func (t URLTable) Items() []URLItem {
	return append([]URLItem(nil), t.items...)
}

func (t URLTable) clone() URLTable {
	return URLTable{items: append([]URLItem(nil), t.items...)}
}

// Append adds fresh Uploaded, unchecked rows for each URL, last write wins
// on duplicates.
func (t URLTable) Append(urls ...string) URLTable {
	next := t.clone()
	pos := make(map[string]int, len(next.items))
	for i, item := range next.items {
		pos[item.OriginalURL] = i
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		item := URLItem{OriginalURL: url, Status: URLStatusUploaded}
		if i, ok := pos[url]; ok {
			next.items[i] = item
			continue
		}
		pos[url] = len(next.items)
		next.items = append(next.items, item)
	}
	return next
}

// Clear removes every row.
func (t URLTable) Clear() URLTable { return URLTable{} }

// Toggle flips the checked flag of the row at index i.
func (t URLTable) Toggle(i int) (URLTable, error) {
	if i < 0 || i >= len(t.items) {
		return t, Errorf(EINVALID, "row index %d out of range [0,%d)", i, len(t.items))
	}
	next := t.clone()
	next.items[i].Checked = !next.items[i].Checked
	return next, nil
}

// AllChecked reports whether every row is currently checked. An empty table
// is never considered all-checked.
func (t URLTable) AllChecked() bool {
	if len(t.items) == 0 {
		return false
	}
	for _, item := range t.items {
		if !item.Checked {
			return false
		}
	}
	return true
}

// ToggleAll sets every row's checked flag to the negation of AllChecked,
// recomputed from the rows.
func (t URLTable) ToggleAll() URLTable {
	target := !t.AllChecked()
	next := t.clone()
	for i := range next.items {
		next.items[i].Checked = target
	}
	return next
}

// EligibleCount returns the number of rows eligible for derivation.
func (t URLTable) EligibleCount() int {
	var n int
	for i := range t.items {
		if t.items[i].Eligible() {
			n++
		}
	}
	return n
}

// MarkExtracted transitions row i from Uploaded to Extracted, storing the
// derived URL.
func (t URLTable) MarkExtracted(i int, derived string) (URLTable, error) {
	return t.transition(i, URLStatusExtracted, func(u *URLItem) {
		u.DerivedURL = derived
		u.Err = ""
	})
}

// MarkFailed transitions row i from Uploaded to Failed, recording the error
// descriptor.
func (t URLTable) MarkFailed(i int, msg string) (URLTable, error) {
	return t.transition(i, URLStatusFailed, func(u *URLItem) {
		u.DerivedURL = ""
		u.Err = msg
	})
}

func (t URLTable) transition(i int, next URLStatus, mutate func(*URLItem)) (URLTable, error) {
	if i < 0 || i >= len(t.items) {
		return t, Errorf(EINVALID, "row index %d out of range [0,%d)", i, len(t.items))
	}
	cur := t.items[i].Status
	if !cur.CanTransition(next) {
		return t, Errorf(ECONFLICT, "illegal transition %s -> %s for %s", cur, next, t.items[i].OriginalURL)
	}
	out := t.clone()
	out.items[i].Status = next
	if mutate != nil {
		mutate(&out.items[i])
	}
	return out, nil
}

// Forward copies every Extracted row's derived URL into the work table as a
// fresh NotStarted seed and marks the row Forwarded. Only Extracted rows are
// forwarded; Uploaded and Failed rows are untouched.
func (t URLTable) Forward(work Table) (URLTable, Table) {
	next := t.clone()
	var urls []string
	for i := range next.items {
		if next.items[i].Status != URLStatusExtracted {
			continue
		}
		urls = append(urls, next.items[i].DerivedURL)
		next.items[i].Status = URLStatusForwarded
	}
	return next, work.Append(urls...)
}

// MarshalJSON implements json.Marshaler so tables can be snapshotted.
func (t URLTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.items)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *URLTable) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.items)
}
