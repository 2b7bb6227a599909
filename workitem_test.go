package evtable_test

import (
	"testing"

	"github.com/evtable/evtable"
	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from evtable.Status
		to   evtable.Status
		want bool
	}{
		{"not started to in progress", evtable.StatusNotStarted, evtable.StatusInProgress, true},
		{"in progress to done", evtable.StatusInProgress, evtable.StatusDone, true},
		{"in progress to failed", evtable.StatusInProgress, evtable.StatusFailed, true},
		{"done to sent", evtable.StatusDone, evtable.StatusSentToDb, true},
		{"not started cannot skip to done", evtable.StatusNotStarted, evtable.StatusDone, false},
		{"not started cannot skip to failed", evtable.StatusNotStarted, evtable.StatusFailed, false},
		{"in progress cannot go back", evtable.StatusInProgress, evtable.StatusNotStarted, false},
		{"done cannot go back", evtable.StatusDone, evtable.StatusInProgress, false},
		{"failed is terminal", evtable.StatusFailed, evtable.StatusInProgress, false},
		{"failed cannot complete", evtable.StatusFailed, evtable.StatusDone, false},
		{"sent is terminal", evtable.StatusSentToDb, evtable.StatusDone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, evtable.StatusFailed.Terminal())
	assert.True(t, evtable.StatusSentToDb.Terminal())
	assert.False(t, evtable.StatusNotStarted.Terminal())
	assert.False(t, evtable.StatusInProgress.Terminal())
	assert.False(t, evtable.StatusDone.Terminal())
}

func TestWorkItem_Eligible(t *testing.T) {
	t.Parallel()

	t.Run("checked and not started is eligible", func(t *testing.T) {
		t.Parallel()
		item := evtable.WorkItem{URL: "https://example.com", Status: evtable.StatusNotStarted, Checked: true}
		assert.True(t, item.Eligible())
	})

	t.Run("unchecked is not eligible regardless of status", func(t *testing.T) {
		t.Parallel()
		item := evtable.WorkItem{URL: "https://example.com", Status: evtable.StatusNotStarted}
		assert.False(t, item.Eligible())
	})

	t.Run("checked but already done is not eligible", func(t *testing.T) {
		t.Parallel()
		item := evtable.WorkItem{URL: "https://example.com", Status: evtable.StatusDone, Checked: true}
		assert.False(t, item.Eligible())
		assert.True(t, item.Saveable())
	})
}
