// Package batch provides the batch extraction orchestration. It drives
// eligible work-table rows through an external extraction capability,
// applying per-item state transitions, and collects completed rows for
// idempotent persistence keyed by source URL.
package batch

import "errors"

// ErrNothingToDo signals that an operation found no eligible rows. It is a
// distinct no-op condition, not a failure: the table is unchanged and no
// external calls were made.
var ErrNothingToDo = errors.New("no eligible rows")
