package types

import "errors"

// ErrUnknownMethod is wrapped into the error returned when a decoded oneof
// field number does not belong to any of the 15 known ABCI methods.
var ErrUnknownMethod = errors.New("types: unknown abci method")
