package rfb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pion/logging"
)

// SendFunc writes an outbound protocol message to the transport.
type SendFunc func(data []byte) error

// AbortFunc is invoked exactly once with the offending bytes and the fatal
// parse error when the session fails. The engine only signals; it does not
// decide retry or teardown policy.
type AbortFunc func(data []byte, err error)

// ServerInit is the decoded server initialization message. It is immutable
// once parsed and handed to the display collaborator.
type ServerInit struct {
	// Width and Height are the framebuffer dimensions in pixels.
	Width  uint16
	Height uint16

	// PixelFormat is the raw 16-byte PIXEL_FORMAT block. Interpreting it
	// is the display layer's concern.
	PixelFormat [pixelFormatSize]byte

	// Name is the server's session name.
	Name string
}

// Rectangle describes one framebuffer update rectangle.
type Rectangle struct {
	X        uint16
	Y        uint16
	Width    uint16
	Height   uint16
	Encoding int32
}

// PayloadLength returns the pixel payload size in bytes for the Raw
// encoding. Computed in uint64 so hostile dimensions cannot overflow.
func (r Rectangle) PayloadLength() uint64 {
	return uint64(r.Width) * uint64(r.Height) * bytesPerPixel
}

// Display receives decoded session metadata and update rectangles.
// Implementations must not retain the pixels slice past the call.
type Display interface {
	// HandleServerInit is called once when the ServerInit message has been
	// decoded, before the engine enters the update state.
	HandleServerInit(info ServerInit)

	// HandleUpdate is called for each decoded update rectangle with its
	// uncompressed pixel payload.
	HandleUpdate(rect Rectangle, pixels []byte)
}

// EngineConfig configures a handshake Engine.
type EngineConfig struct {
	// Send writes outbound protocol replies. Required.
	Send SendFunc

	// Abort is invoked on a fatal parse error. Optional.
	Abort AbortFunc

	// Display receives the decoded ServerInit and update rectangles.
	// Optional; decoded data is discarded when nil.
	Display Display

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Engine is the incremental handshake and framing parser for one session.
//
// Feed must be called from a single goroutine; sessions are independent and
// share no state. The engine never blocks: every call either consumes a
// complete message prefix or reports that more bytes are needed.
type Engine struct {
	send    SendFunc
	abort   AbortFunc
	display Display
	log     logging.LeveledLogger

	state  ParseState
	failed bool
}

// NewEngine creates an Engine in the security-handshake state.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Send == nil {
		return nil, ErrNoSender
	}

	e := &Engine{
		send:    config.Send,
		abort:   config.Abort,
		display: config.Display,
		state:   StateSecurityHandshake,
	}

	if config.LoggerFactory != nil {
		e.log = config.LoggerFactory.NewLogger("rfb-engine")
	}

	return e, nil
}

// State returns the currently active parse state.
func (e *Engine) State() ParseState {
	return e.state
}

// Failed reports whether a fatal parse error has latched the engine.
func (e *Engine) Failed() bool {
	return e.failed
}

// Feed offers the session's entire unconsumed byte run to the current state
// parser.
//
// It returns (0, nil) when the buffer does not yet hold a complete message;
// the caller must re-present the same bytes, plus any new ones, on the next
// call. It returns (n, nil) with n > 0 when exactly n bytes were consumed;
// remaining bytes belong to the next message and must be re-offered. On a
// protocol violation it invokes the abort callback once and returns (0, err);
// the session is dead and all further calls return ErrSessionFailed.
func (e *Engine) Feed(data []byte) (int, error) {
	if e.failed {
		return 0, ErrSessionFailed
	}

	var (
		consumed int
		next     ParseState
		err      error
	)

	switch e.state {
	case StateSecurityHandshake:
		consumed, next, err = e.parseSecurityHandshake(data)
	case StateSecurityResult:
		consumed, next, err = e.parseSecurityResult(data)
	case StateServerInit:
		consumed, next, err = e.parseServerInit(data)
	case StateUpdates:
		consumed, next, err = e.parseUpdate(data)
	default:
		err = fmt.Errorf("%w: unknown state %s", ErrSessionFailed, e.state)
	}

	if err != nil {
		e.failed = true
		if e.log != nil {
			e.log.Errorf("session failed in state %s: %v", e.state, err)
		}
		if e.abort != nil {
			e.abort(data, err)
		}
		return 0, err
	}

	if consumed > 0 && next != e.state {
		if e.log != nil {
			e.log.Debugf("state %s -> %s (%d bytes consumed)", e.state, next, consumed)
		}
		e.state = next
	}

	return consumed, nil
}

// parseSecurityHandshake decodes the security-type list: one count byte n
// followed by n type codes. Consumes 1+n bytes.
func (e *Engine) parseSecurityHandshake(data []byte) (int, ParseState, error) {
	if len(data) < 1 {
		return 0, StateSecurityHandshake, nil
	}

	n := int(data[0])
	if n == 0 {
		// An empty list means the server refused the connection outright.
		return 0, StateSecurityHandshake, ErrNoSecurityTypes
	}
	if len(data) < 1+n {
		return 0, StateSecurityHandshake, nil
	}

	first := SecurityType(data[1])
	if first != SecurityTypeNone {
		return 0, StateSecurityHandshake,
			fmt.Errorf("%w: server offers %s first", ErrUnsupportedSecurityType, first)
	}

	if e.log != nil {
		e.log.Debugf("server offers %d security types, selecting None", n)
	}
	if err := e.send([]byte{securityReplyNone}); err != nil {
		return 0, StateSecurityHandshake, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return 1 + n, StateSecurityResult, nil
}

// parseSecurityResult decodes the 32-bit security result. Zero means the
// handshake succeeded and the client replies with its share flag. Consumes
// 4 bytes.
func (e *Engine) parseSecurityResult(data []byte) (int, ParseState, error) {
	if len(data) < 4 {
		return 0, StateSecurityResult, nil
	}

	result := binary.BigEndian.Uint32(data[:4])
	if result != 0 {
		return 0, StateSecurityResult,
			fmt.Errorf("%w: server returned %d", ErrAuthenticationDenied, result)
	}

	if err := e.send([]byte{shareFlagOff}); err != nil {
		return 0, StateSecurityResult, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return 4, StateServerInit, nil
}

// parseServerInit decodes the fixed ServerInit header plus the
// variable-length session name, then advertises the Raw encoding. Consumes
// header + name length bytes.
func (e *Engine) parseServerInit(data []byte) (int, ParseState, error) {
	if len(data) < serverInitHeaderSize {
		return 0, StateServerInit, nil
	}

	nameLen := binary.BigEndian.Uint32(data[20:serverInitHeaderSize])
	if nameLen > MaxSessionNameLength {
		return 0, StateServerInit,
			fmt.Errorf("%w: %d bytes", ErrNameTooLong, nameLen)
	}

	total := serverInitHeaderSize + int(nameLen)
	if len(data) < total {
		return 0, StateServerInit, nil
	}

	info := ServerInit{
		Width:  binary.BigEndian.Uint16(data[0:2]),
		Height: binary.BigEndian.Uint16(data[2:4]),
		Name:   string(data[serverInitHeaderSize:total]),
	}
	copy(info.PixelFormat[:], data[4:4+pixelFormatSize])

	if e.log != nil {
		e.log.Infof("server session %q (%dx%d)", info.Name, info.Width, info.Height)
	}
	if e.display != nil {
		e.display.HandleServerInit(info)
	}

	if err := e.send(encodeSetEncodings()); err != nil {
		return 0, StateServerInit, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return total, StateUpdates, nil
}

// parseUpdate decodes one single-rectangle Raw-encoded framebuffer update.
// Consumes header + width*height*4 bytes and stays in the update state.
func (e *Engine) parseUpdate(data []byte) (int, ParseState, error) {
	if len(data) < updateHeaderSize {
		return 0, StateUpdates, nil
	}

	if !bytes.Equal(data[:4], updateMarker[:]) {
		return 0, StateUpdates,
			fmt.Errorf("%w: % x", ErrInvalidPacket, data[:4])
	}

	rect := Rectangle{
		X:        binary.BigEndian.Uint16(data[4:6]),
		Y:        binary.BigEndian.Uint16(data[6:8]),
		Width:    binary.BigEndian.Uint16(data[8:10]),
		Height:   binary.BigEndian.Uint16(data[10:12]),
		Encoding: int32(binary.BigEndian.Uint32(data[12:updateHeaderSize])),
	}

	if rect.Encoding != EncodingRaw {
		return 0, StateUpdates,
			fmt.Errorf("%w: encoding %d", ErrUnsupportedEncoding, rect.Encoding)
	}

	payload := rect.PayloadLength()
	if payload > MaxRectangleBytes {
		return 0, StateUpdates,
			fmt.Errorf("%w: %dx%d needs %d bytes", ErrRectangleTooLarge, rect.Width, rect.Height, payload)
	}

	total := updateHeaderSize + int(payload)
	if len(data) < total {
		return 0, StateUpdates, nil
	}

	if e.log != nil {
		e.log.Debugf("update rectangle %dx%d at (%d,%d)", rect.Width, rect.Height, rect.X, rect.Y)
	}
	if e.display != nil {
		e.display.HandleUpdate(rect, data[updateHeaderSize:total])
	}

	return total, StateUpdates, nil
}
