package sqlite

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/evtable/evtable"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ evtable.RecordStore = (*RecordStore)(nil)

// RecordStore implements evtable.RecordStore using SQLite. Rows are keyed by
// source URL with overwrite-on-conflict semantics: re-submitting the same
// URL always refreshes the stored row rather than silently skipping it.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// fieldColumns is the event column list in insert order, matching the
// record vocabulary.
var fieldColumns = evtable.Columns[1:]

// Upsert writes the given records keyed on url. All rows are written in one
// transaction, so a failure leaves the store unchanged. Returns the number
// of rows saved.
func (s *RecordStore) Upsert(ctx context.Context, records []*evtable.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, err
		}

		args := make([]any, 0, len(fieldColumns)+6)
		args = append(args, uuid.New().String(), rec.URL)
		for _, col := range fieldColumns {
			args = append(args, cellArg(rec.Field(col)))
		}
		args = append(args, rec.RawText, contentHash(rec), now, now)

		if _, err := tx.ExecContext(ctx, upsertQuery, args...); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// upsertQuery is built once from the column list so the insert order and the
// conflict-update set cannot drift apart.
var upsertQuery = buildUpsertQuery()

func buildUpsertQuery() string {
	cols := append([]string{"id", "url"}, fieldColumns...)
	cols = append(cols, "event_markdown", "content_hash", "created_at", "updated_at")

	var b strings.Builder
	b.WriteString("INSERT INTO events (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	b.WriteString(") ON CONFLICT(url) DO UPDATE SET ")

	// id and created_at keep their original values on conflict.
	var sets []string
	for _, col := range cols[2:] {
		sets = append(sets, col+" = excluded."+col)
	}
	b.WriteString(strings.Join(sets, ", "))
	return b.String()
}

// cellArg converts a field value into its stored representation: scalars as
// text, lists and objects as canonical JSON text, absent as NULL.
func cellArg(v evtable.FieldValue) any {
	switch v.Kind() {
	case evtable.KindScalar:
		return v.ScalarValue()
	case evtable.KindList:
		b, err := json.Marshal(v.ListValue())
		if err != nil {
			return nil
		}
		return string(b)
	case evtable.KindObject:
		b, err := json.Marshal(v.ObjectValue())
		if err != nil {
			return nil
		}
		return string(b)
	}
	return nil
}

// contentHash computes an xxHash over the stored cell values so record
// changes are observable without comparing every column.
func contentHash(rec *evtable.Record) string {
	h := xxhash.New()
	_, _ = h.WriteString(rec.URL)
	for _, col := range fieldColumns {
		_, _ = h.WriteString("\x00")
		if s, ok := cellArg(rec.Field(col)).(string); ok {
			_, _ = h.WriteString(s)
		}
	}
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(rec.RawText)
	return strconv.FormatUint(h.Sum64(), 16)
}
