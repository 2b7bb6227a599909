package evtable

import "encoding/json"

// Table is an ordered collection of WorkItems with per-item state.
//
// Table has value semantics: every mutating method copies the underlying
// rows and returns a new Table, so a snapshot handed to a concurrent reader
// never observes a partially-written item. Items are only ever appended or
// cleared in bulk; no item is deleted individually.
type Table struct {
	items []WorkItem
}

// NewTable returns a Table seeded with the given items.
func NewTable(items ...WorkItem) Table {
	return Table{items: append([]WorkItem(nil), items...)}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.items)
}

// Items returns a copy of all rows.
func (t Table) Items() []WorkItem {
	return append([]WorkItem(nil), t.items...)
}

// Item returns the row at index i.
func (t Table) Item(i int) (WorkItem, error) {
	if i < 0 || i >= len(t.items) {
		return WorkItem{}, Errorf(EINVALID, "row index %d out of range [0,%d)", i, len(t.items))
	}
	return t.items[i], nil
}

// clone copies the rows so mutations are invisible to prior snapshots.
func (t Table) clone() Table {
	return Table{items: append([]WorkItem(nil), t.items...)}
}

// Append adds fresh NotStarted, unchecked rows for each URL. A URL already
// present in the table is overwritten in place (last write wins), keeping
// its original position.
func (t Table) Append(urls ...string) Table {
	next := t.clone()
	pos := make(map[string]int, len(next.items))
	for i, item := range next.items {
		pos[item.URL] = i
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		item := WorkItem{URL: url, Status: StatusNotStarted}
		if i, ok := pos[url]; ok {
			next.items[i] = item
			continue
		}
		pos[url] = len(next.items)
		next.items = append(next.items, item)
	}
	return next
}

// Clear removes every row, starting a new table generation.
func (t Table) Clear() Table {
	return Table{}
}

// Toggle flips the checked flag of the row at index i.
func (t Table) Toggle(i int) (Table, error) {
	if i < 0 || i >= len(t.items) {
		return t, Errorf(EINVALID, "row index %d out of range [0,%d)", i, len(t.items))
	}
	next := t.clone()
	next.items[i].Checked = !next.items[i].Checked
	return next, nil
}

// AllChecked reports whether every row is currently checked. An empty table
// is never considered all-checked.
func (t Table) AllChecked() bool {
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

// ToggleAll sets every row's checked flag to the negation of AllChecked.
// The target value is recomputed from the rows rather than tracked
// separately, so it stays correct after the set of rows changes.
func (t Table) ToggleAll() Table {
	target := !t.AllChecked()
	next := t.clone()
	for i := range next.items {
		next.items[i].Checked = target
	}
	return next
}

// EligibleCount returns the number of rows eligible for extraction
// (checked and NotStarted).
func (t Table) EligibleCount() int {
	var n int
	for i := range t.items {
		if t.items[i].Eligible() {
			n++
		}
	}
	return n
}

// transition applies a guarded status change to row i on a fresh snapshot.
func (t Table) transition(i int, next Status, mutate func(*WorkItem)) (Table, error) {
	if i < 0 || i >= len(t.items) {
		return t, Errorf(EINVALID, "row index %d out of range [0,%d)", i, len(t.items))
	}
	cur := t.items[i].Status
	if !cur.CanTransition(next) {
		return t, Errorf(ECONFLICT, "illegal transition %s -> %s for %s", cur, next, t.items[i].URL)
	}
	out := t.clone()
	out.items[i].Status = next
	if mutate != nil {
		mutate(&out.items[i])
	}
	return out, nil
}

// MarkInProgress transitions row i from NotStarted to InProgress. The batch
// processor applies this before issuing the extraction call, so a crash
// mid-flight is observable as a stuck InProgress row.
func (t Table) MarkInProgress(i int) (Table, error) {
	return t.transition(i, StatusInProgress, nil)
}

// MarkDone transitions row i from InProgress to Done, storing the normalized
// record and raw document text.
func (t Table) MarkDone(i int, rec *Record, rawText string) (Table, error) {
	return t.transition(i, StatusDone, func(w *WorkItem) {
		w.Result = rec
		w.RawText = rawText
		w.Err = ""
	})
}

// MarkFailed transitions row i from InProgress to Failed, recording the
// error descriptor in place of a result.
func (t Table) MarkFailed(i int, msg string) (Table, error) {
	return t.transition(i, StatusFailed, func(w *WorkItem) {
		w.Result = nil
		w.RawText = ""
		w.Err = msg
	})
}

// MarkSent transitions row i from Done to SentToDb.
func (t Table) MarkSent(i int) (Table, error) {
	return t.transition(i, StatusSentToDb, nil)
}

// PageCount returns the number of pages of the given size,
// ceil(Len/pageSize). A non-positive pageSize yields zero pages.
func (t Table) PageCount(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (len(t.items) + pageSize - 1) / pageSize
}

// Page returns the rows visible on the 1-based pageNumber. It only slices;
// callers are expected to clamp pageNumber to [1, PageCount].
func (t Table) Page(pageSize, pageNumber int) []WorkItem {
	if pageSize <= 0 || pageNumber <= 0 {
		return nil
	}
	start := (pageNumber - 1) * pageSize
	if start >= len(t.items) {
		return nil
	}
	end := start + pageSize
	if end > len(t.items) {
		end = len(t.items)
	}
	return append([]WorkItem(nil), t.items[start:end]...)
}

// AbsoluteIndex translates a visible index on a page to an absolute table
// index. Selection and state mutation APIs that take a visible index must go
// through this translation; operating on the wrong absolute index silently
// corrupts an unrelated row.
func AbsoluteIndex(pageSize, pageNumber, visibleIndex int) int {
	return (pageNumber-1)*pageSize + visibleIndex
}

// MarshalJSON implements json.Marshaler so tables can be snapshotted.
func (t Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.items)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Table) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.items)
}
