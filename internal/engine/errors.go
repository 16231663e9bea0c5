package engine

import "errors"

// ErrInvalidConfig marks configuration problems that abort a run before any
// query executes (bad sample size, missing or unknown join key, malformed
// exclusion list).
var ErrInvalidConfig = errors.New("invalid comparison config")
