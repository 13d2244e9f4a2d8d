package abci

import "errors"

// Sentinel errors matching spec.md §7's Error Handling Design. All of them
// are fatal to the one connection or server call involved; they are never
// silently swallowed.
var (
	// ErrFramingError marks a malformed varint header or an otherwise
	// unrecoverable framing failure. Fatal: abort the connection.
	ErrFramingError = errors.New("abci: malformed frame")

	// ErrUnknownMethod marks a request oneof tag outside the 15 known ABCI
	// methods, or a handler missing the method a classified connection
	// kind requires. Fatal: abort the connection.
	ErrUnknownMethod = errors.New("abci: unknown or unimplemented method")

	// ErrHandlerFailure wraps a panic or error raised out of a handler
	// invocation. Fatal: abort the connection; other connections and the
	// server are unaffected.
	ErrHandlerFailure = errors.New("abci: handler failure")

	// ErrAlreadyStarted is returned by Server.Start when called a second
	// time without an intervening Stop.
	ErrAlreadyStarted = errors.New("abci: server already started")
)
