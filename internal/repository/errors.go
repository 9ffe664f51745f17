package repository

import "errors"

// ErrConflict is returned from inside a transaction when a guarded update
// matched no rows because the row changed since it was checked.
var ErrConflict = errors.New("concurrent update conflict")
