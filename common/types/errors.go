package types

import "errors"

// ErrUnauthorized is returned when a governance operation is invoked by a principal
// that is not allowed to perform it.
var ErrUnauthorized = errors.New("unauthorized")
