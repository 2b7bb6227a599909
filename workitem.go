package evtable

// Status represents the lifecycle state of a WorkItem.
//
// Transitions only ever move forward:
//
//	NotStarted -> InProgress -> {Done, Failed}
//	Done -> SentToDb
//
// Failed and SentToDb are terminal within a table generation. A Failed item
// is never retried automatically; advancing it again requires re-importing.
type Status string

// Status constants for WorkItem.
const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusSentToDb   Status = "sent_to_db"
	StatusFailed     Status = "failed"
)

// String returns a human-readable label for the status.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done Extracting"
	case StatusSentToDb:
		return "Sent to Database"
	case StatusFailed:
		return "Failed"
	}
	return string(s)
}

// CanTransition reports whether moving from s to next is a legal
// state-machine transition.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusNotStarted:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusDone || next == StatusFailed
	case StatusDone:
		return next == StatusSentToDb
	}
	return false
}

// Terminal reports whether the status is terminal for the current table
// generation.
func (s Status) Terminal() bool {
	return s == StatusSentToDb || s == StatusFailed
}

// WorkItem is one row of the extraction table, keyed by source URL.
type WorkItem struct {
	// URL is the natural key; unique within a table instance.
	URL string `json:"url"`

	// Status tracks the item through the extraction state machine.
	Status Status `json:"status"`

	// Result holds the normalized extraction result. Nil until the item
	// reaches Done.
	Result *Record `json:"result,omitempty"`

	// RawText is the auxiliary document text returned by the extraction
	// call. Empty until Done.
	RawText string `json:"rawText,omitempty"`

	// Err holds the error descriptor recorded when the item Failed.
	Err string `json:"err,omitempty"`

	// Checked is the user-selection flag, independent of Status.
	Checked bool `json:"checked"`
}

// Eligible reports whether the item can be picked up by the batch processor.
func (w *WorkItem) Eligible() bool {
	return w.Checked && w.Status == StatusNotStarted
}

// Saveable reports whether the item can be picked up by the persistence
// gateway.
func (w *WorkItem) Saveable() bool {
	return w.Checked && w.Status == StatusDone
}
