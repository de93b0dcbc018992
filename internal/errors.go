package trainyard

import "errors"

// Sentinel errors for the schedule domain.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)
