package rfb

import "encoding/binary"

// Wire format constants from RFC 6143. All multi-byte fields are big-endian.
const (
	// serverInitHeaderSize is the fixed ServerInit prefix: framebuffer
	// width (2) + height (2) + pixel format (16) + name length (4).
	serverInitHeaderSize = 24

	// pixelFormatSize is the size of the PIXEL_FORMAT block (Section 7.4).
	pixelFormatSize = 16

	// updateHeaderSize is the fixed FramebufferUpdate prefix for a single
	// rectangle: message type (1) + padding (1) + rectangle count (2) +
	// x (2) + y (2) + width (2) + height (2) + encoding (4).
	updateHeaderSize = 16

	// bytesPerPixel is fixed by the Raw encoding this engine negotiates.
	bytesPerPixel = 4
)

// Client-to-server message type bytes (Section 7.5).
const (
	msgSetEncodings uint8 = 2
)

// Server-to-client message type bytes (Section 7.6).
const (
	msgFramebufferUpdate uint8 = 0
)

// EncodingRaw is the uncompressed 4-bytes-per-pixel rectangle encoding,
// the only encoding this engine advertises or accepts.
const EncodingRaw int32 = 0

// Parsing limits. Lengths beyond these are treated as protocol violations
// rather than buffering targets, so a hostile server cannot make the session
// buffer grow without bound.
const (
	// MaxSessionNameLength bounds the ServerInit session-name field.
	MaxSessionNameLength = 1 << 20

	// MaxRectangleBytes bounds the computed width*height*4 payload of a
	// single update rectangle. 256 MiB comfortably covers any real
	// framebuffer (an 8K display is ~127 MiB per full-frame update).
	MaxRectangleBytes = 256 << 20
)

// securityReplyNone is the one-byte reply selecting the None scheme.
// Mirrors the reply byte the reference client sends.
const securityReplyNone uint8 = 0

// shareFlagOff is the ClientInit shared-desktop flag. This client always
// requests a non-shared session.
const shareFlagOff uint8 = 0

// updateMarker is the fixed prefix of every update this engine accepts:
// FramebufferUpdate message type, zero padding, rectangle count 1.
var updateMarker = [4]byte{msgFramebufferUpdate, 0, 0, 1}

// encodeSetEncodings builds the SetEncodings message advertising exactly
// the Raw encoding: type byte, padding byte, big-endian count, big-endian
// encoding code.
func encodeSetEncodings() []byte {
	buf := make([]byte, 8)
	buf[0] = msgSetEncodings
	binary.BigEndian.PutUint16(buf[2:4], 1)
	binary.BigEndian.PutUint32(buf[4:8], uint32(EncodingRaw))
	return buf
}
