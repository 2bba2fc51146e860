package aggregate

import "errors"

// Sentinel kinds for table query errors.
var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownDirection = errors.New("unknown sort direction")
)
