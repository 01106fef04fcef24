package history

import "errors"

// ErrNotFound is returned when no entry matches a lookup.
var ErrNotFound = errors.New("history entry not found")
