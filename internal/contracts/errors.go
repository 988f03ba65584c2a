package contracts

import "errors"

// ErrMalformedInput marks input that fails the event table contract:
// a missing required column, an unparseable timestamp, or an event name
// outside the enum. Malformed input aborts the whole run before any
// per-day aggregation starts; partial output over bad input is worthless.
var ErrMalformedInput = errors.New("malformed input")
