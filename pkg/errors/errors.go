package errors

import "errors"

// ErrOptimisticLock indicates the row was modified by another operation
// since it was read. Callers should re-fetch and retry the action.
var ErrOptimisticLock = errors.New("record was modified by another operation, refresh and retry")
