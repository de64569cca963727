package rfb

import "fmt"

// ParseState identifies which sub-parser currently owns incoming bytes.
// Exactly one state is active per session and transitions are
// one-directional through the handshake sequence. A fatal parse error does
// not map to a state: it latches the engine and is reported through the
// abort callback.
type ParseState int

const (
	// StateSecurityHandshake awaits the server's security-type list.
	StateSecurityHandshake ParseState = iota

	// StateSecurityResult awaits the 32-bit security result code.
	StateSecurityResult

	// StateServerInit awaits the ServerInit message (geometry, pixel
	// format and session name).
	StateServerInit

	// StateUpdates is the steady state: framebuffer update rectangles.
	StateUpdates
)

// String returns a human-readable name for the parse state.
func (s ParseState) String() string {
	switch s {
	case StateSecurityHandshake:
		return "SecurityHandshake"
	case StateSecurityResult:
		return "SecurityResult"
	case StateServerInit:
		return "ServerInit"
	case StateUpdates:
		return "Updates"
	default:
		return fmt.Sprintf("ParseState(%d)", int(s))
	}
}

// SecurityType is a security scheme code advertised by the server during
// the handshake. Codes this implementation does not recognize are preserved
// as opaque values; a session only fails when the type it would have to use
// is unsupported.
type SecurityType uint8

// Security type codes from RFC 6143 Section 7.1.2 and the IANA registry.
const (
	// SecurityTypeInvalid signals a refused connection when offered alone.
	SecurityTypeInvalid SecurityType = 0

	// SecurityTypeNone is the "no authentication" scheme. This is the only
	// scheme the engine supports.
	SecurityTypeNone SecurityType = 1

	// SecurityTypeVNCAuth is the DES challenge-response scheme.
	SecurityTypeVNCAuth SecurityType = 2

	// SecurityTypeTight is the TightVNC extension scheme.
	SecurityTypeTight SecurityType = 16

	// SecurityTypeVeNCrypt is the TLS-based VeNCrypt scheme.
	SecurityTypeVeNCrypt SecurityType = 19
)

// String returns a human-readable name for known security types and the
// numeric code for unknown ones.
func (t SecurityType) String() string {
	switch t {
	case SecurityTypeInvalid:
		return "Invalid"
	case SecurityTypeNone:
		return "None"
	case SecurityTypeVNCAuth:
		return "VNCAuth"
	case SecurityTypeTight:
		return "Tight"
	case SecurityTypeVeNCrypt:
		return "VeNCrypt"
	default:
		return fmt.Sprintf("SecurityType(%d)", uint8(t))
	}
}
