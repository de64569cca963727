package transport

import "errors"

// Transport errors.
var (
	// ErrClosed is returned when an operation is attempted on a closed transport.
	ErrClosed = errors.New("transport: closed")

	// ErrNoConn is returned when a Stream is configured without a connection.
	ErrNoConn = errors.New("transport: no connection configured")

	// ErrNoHandler is returned when no data handler is configured.
	ErrNoHandler = errors.New("transport: no data handler configured")

	// ErrAlreadyStarted is returned when Start is called on a running transport.
	ErrAlreadyStarted = errors.New("transport: already started")
)
