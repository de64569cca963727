package rfb

import "errors"

// Protocol engine errors. All of these are fatal for the session: the
// engine reports them once through the abort callback and refuses further
// input.
var (
	// ErrNoSender is returned when an Engine is constructed without a send
	// callback.
	ErrNoSender = errors.New("rfb: no send callback configured")

	// ErrSessionFailed is returned by Feed after a fatal parse error has
	// latched the engine.
	ErrSessionFailed = errors.New("rfb: session failed, no further parsing")

	// ErrNoSecurityTypes is returned when the server posts an empty
	// security-type list, which means it refused the connection.
	ErrNoSecurityTypes = errors.New("rfb: server offered no security types")

	// ErrUnsupportedSecurityType is returned when the server's first
	// advertised security type is not None.
	ErrUnsupportedSecurityType = errors.New("rfb: unsupported security type")

	// ErrAuthenticationDenied is returned on a non-zero security result.
	ErrAuthenticationDenied = errors.New("rfb: authentication denied by server")

	// ErrNameTooLong is returned when the ServerInit session-name length
	// exceeds MaxSessionNameLength.
	ErrNameTooLong = errors.New("rfb: session name exceeds maximum length")

	// ErrInvalidPacket is returned when an update header does not carry the
	// single-rectangle FramebufferUpdate framing this engine supports.
	ErrInvalidPacket = errors.New("rfb: invalid update packet header")

	// ErrUnsupportedEncoding is returned when an update rectangle uses an
	// encoding other than Raw.
	ErrUnsupportedEncoding = errors.New("rfb: unsupported rectangle encoding")

	// ErrRectangleTooLarge is returned when a rectangle's computed pixel
	// payload exceeds MaxRectangleBytes.
	ErrRectangleTooLarge = errors.New("rfb: rectangle payload exceeds maximum size")

	// ErrSendFailed is returned when an outbound protocol reply cannot be
	// written to the transport.
	ErrSendFailed = errors.New("rfb: failed to send protocol reply")
)
