package evtable_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/evtable/evtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Append(t *testing.T) {
	t.Parallel()

	t.Run("seeds fresh not started unchecked rows", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example", "https://b.example")

		require.Equal(t, 2, table.Len())
		for _, item := range table.Items() {
			assert.Equal(t, evtable.StatusNotStarted, item.Status)
			assert.False(t, item.Checked)
			assert.Nil(t, item.Result)
		}
	})

	t.Run("duplicate URL is overwritten in place, last write wins", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example", "https://b.example")
		table, err := table.Toggle(0)
		require.NoError(t, err)

		table = table.Append("https://a.example")

		require.Equal(t, 2, table.Len())
		item, err := table.Item(0)
		require.NoError(t, err)
		assert.Equal(t, "https://a.example", item.URL)
		assert.False(t, item.Checked, "re-import resets the row")
	})

	t.Run("empty URLs are skipped", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("", "https://a.example", "")
		assert.Equal(t, 1, table.Len())
	})
}

func TestTable_Snapshots(t *testing.T) {
	t.Parallel()

	t.Run("mutation does not affect prior snapshot", func(t *testing.T) {
		t.Parallel()

		before := evtable.Table{}.Append("https://a.example")
		after, err := before.Toggle(0)
		require.NoError(t, err)

		beforeItem, err := before.Item(0)
		require.NoError(t, err)
		afterItem, err := after.Item(0)
		require.NoError(t, err)

		assert.False(t, beforeItem.Checked)
		assert.True(t, afterItem.Checked)
	})

	t.Run("clear starts a new generation", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example", "https://b.example")
		assert.Equal(t, 0, table.Clear().Len())
		assert.Equal(t, 2, table.Len())
	})
}

func TestTable_ToggleAll(t *testing.T) {
	t.Parallel()

	t.Run("checks all when any row is unchecked", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example", "https://b.example")
		table, err := table.Toggle(0)
		require.NoError(t, err)

		table = table.ToggleAll()

		assert.True(t, table.AllChecked())
	})

	t.Run("unchecks all when every row is checked", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example", "https://b.example").ToggleAll()
		require.True(t, table.AllChecked())

		table = table.ToggleAll()

		for _, item := range table.Items() {
			assert.False(t, item.Checked)
		}
	})

	t.Run("target is recomputed after the row set changes", func(t *testing.T) {
		t.Parallel()

		// Check everything, then append a new unchecked row. ToggleAll must
		// observe the mixed state and check all, not blindly flip a flag.
		table := evtable.Table{}.Append("https://a.example").ToggleAll()
		table = table.Append("https://b.example")
		require.False(t, table.AllChecked())

		table = table.ToggleAll()

		assert.True(t, table.AllChecked())
	})
}

func TestTable_EligibleCount(t *testing.T) {
	t.Parallel()

	table := evtable.Table{}.Append("https://a.example", "https://b.example", "https://c.example").ToggleAll()

	table, err := table.MarkInProgress(1)
	require.NoError(t, err)

	assert.Equal(t, 2, table.EligibleCount())
}

func TestTable_Transitions(t *testing.T) {
	t.Parallel()

	t.Run("full lifecycle to sent", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example").ToggleAll()

		table, err := table.MarkInProgress(0)
		require.NoError(t, err)

		rec := evtable.NewRecord("https://a.example", map[string]evtable.FieldValue{
			evtable.FieldName: evtable.Scalar("GopherCon"),
		})
		table, err = table.MarkDone(0, rec, "# GopherCon")
		require.NoError(t, err)

		item, err := table.Item(0)
		require.NoError(t, err)
		assert.Equal(t, evtable.StatusDone, item.Status)
		assert.NotNil(t, item.Result)
		assert.Equal(t, "# GopherCon", item.RawText)

		table, err = table.MarkSent(0)
		require.NoError(t, err)
		item, err = table.Item(0)
		require.NoError(t, err)
		assert.Equal(t, evtable.StatusSentToDb, item.Status)
	})

	t.Run("failure records descriptor and clears result", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example").ToggleAll()
		table, err := table.MarkInProgress(0)
		require.NoError(t, err)

		table, err = table.MarkFailed(0, "timeout talking to service")
		require.NoError(t, err)

		item, err := table.Item(0)
		require.NoError(t, err)
		assert.Equal(t, evtable.StatusFailed, item.Status)
		assert.Nil(t, item.Result)
		assert.Equal(t, "timeout talking to service", item.Err)
	})

	t.Run("skipping a state is rejected", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example")

		_, err := table.MarkDone(0, nil, "")
		require.Error(t, err)
		assert.Equal(t, evtable.ECONFLICT, evtable.ErrorCode(err))

		_, err = table.MarkSent(0)
		require.Error(t, err)
		assert.Equal(t, evtable.ECONFLICT, evtable.ErrorCode(err))
	})

	t.Run("out of range index is rejected", func(t *testing.T) {
		t.Parallel()

		table := evtable.Table{}.Append("https://a.example")
		_, err := table.MarkInProgress(5)
		require.Error(t, err)
		assert.Equal(t, evtable.EINVALID, evtable.ErrorCode(err))
	})
}

func TestTable_Paging(t *testing.T) {
	t.Parallel()

	newTableOfSize := func(n int) evtable.Table {
		urls := make([]string, n)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://example.com/event/%d", i)
		}
		return evtable.Table{}.Append(urls...)
	}

	t.Run("120 rows at page size 50 yield pages of 50, 50, 20", func(t *testing.T) {
		t.Parallel()

		table := newTableOfSize(120)

		assert.Equal(t, 3, table.PageCount(50))
		assert.Len(t, table.Page(50, 1), 50)
		assert.Len(t, table.Page(50, 2), 50)
		assert.Len(t, table.Page(50, 3), 20)
		assert.Empty(t, table.Page(50, 4))
	})

	t.Run("toggling visible index 2 on page 2 mutates absolute index 52", func(t *testing.T) {
		t.Parallel()

		table := newTableOfSize(120)

		abs := evtable.AbsoluteIndex(50, 2, 2)
		require.Equal(t, 52, abs)

		table, err := table.Toggle(abs)
		require.NoError(t, err)

		item, err := table.Item(52)
		require.NoError(t, err)
		assert.True(t, item.Checked)

		page := table.Page(50, 2)
		assert.True(t, page[2].Checked)

		// Neighbouring rows are untouched.
		for _, i := range []int{2, 51, 53} {
			other, err := table.Item(i)
			require.NoError(t, err)
			assert.False(t, other.Checked, "row %d", i)
		}
	})

	t.Run("page slices are copies", func(t *testing.T) {
		t.Parallel()

		table := newTableOfSize(3)
		page := table.Page(2, 1)
		page[0].Checked = true

		item, err := table.Item(0)
		require.NoError(t, err)
		assert.False(t, item.Checked)
	})
}

func TestTable_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	table := evtable.Table{}.Append("https://a.example", "https://b.example").ToggleAll()
	table, err := table.MarkInProgress(0)
	require.NoError(t, err)
	table, err = table.MarkFailed(0, "boom")
	require.NoError(t, err)

	data, err := json.Marshal(table)
	require.NoError(t, err)

	var got evtable.Table
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, table.Items(), got.Items())
}
