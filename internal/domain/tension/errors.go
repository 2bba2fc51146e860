package tension

import "errors"

// Sentinel kinds for tension errors.
var (
	ErrUnknownTrend = errors.New("unknown trend")
)
