package batch

import (
	"context"

	"github.com/evtable/evtable"
)

// Saver is the persistence gateway: it collects checked, Done rows,
// de-duplicates them by URL, serializes structured fields for the wire, and
// upserts them through the record store.
type Saver struct {
	Store evtable.RecordStore
}

// Save persists every checked, Done row and returns the updated table plus
// the number of rows saved. With zero saveable rows it returns the table
// unchanged and a zero count.
//
// If the input holds two rows with the same URL, the later one in iteration
// order wins; this is a documented contract guarding against accidental
// double-selection. On store failure no row changes status: the operation is
// all-or-nothing from the state machine's perspective even though the
// underlying store may not be transactional across rows, and the store's
// error surfaces unmodified.
func (s *Saver) Save(ctx context.Context, table evtable.Table) (evtable.Table, int, error) {
	var indexes []int
	for i, item := range table.Items() {
		if item.Saveable() {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		return table, 0, nil
	}

	// De-duplicate by URL, last write wins, keeping the position of the
	// first occurrence so output order stays stable.
	pos := make(map[string]int, len(indexes))
	var records []*evtable.Record
	for _, i := range indexes {
		item := mustItem(table, i)
		rec := item.Result.Serialize()
		rec.URL = item.URL
		if j, ok := pos[item.URL]; ok {
			records[j] = rec
			continue
		}
		pos[item.URL] = len(records)
		records = append(records, rec)
	}

	count, err := s.Store.Upsert(ctx, records)
	if err != nil {
		return table, 0, err
	}

	cur := table
	for _, i := range indexes {
		next, err := cur.MarkSent(i)
		if err != nil {
			continue
		}
		cur = next
	}
	return cur, count, nil
}
