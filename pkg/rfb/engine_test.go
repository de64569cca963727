package rfb

import (
	"encoding/binary"
	"errors"
	"testing"
)

// recorder captures everything the engine emits through its collaborators.
type recorder struct {
	sent    [][]byte
	aborts  []error
	inits   []ServerInit
	rects   []Rectangle
	payload [][]byte
}

func (r *recorder) send(data []byte) error {
	cp := append([]byte(nil), data...)
	r.sent = append(r.sent, cp)
	return nil
}

func (r *recorder) abort(_ []byte, err error) {
	r.aborts = append(r.aborts, err)
}

func (r *recorder) HandleServerInit(info ServerInit) {
	r.inits = append(r.inits, info)
}

func (r *recorder) HandleUpdate(rect Rectangle, pixels []byte) {
	r.rects = append(r.rects, rect)
	r.payload = append(r.payload, append([]byte(nil), pixels...))
}

func newTestEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e, err := NewEngine(EngineConfig{
		Send:    rec.send,
		Abort:   rec.abort,
		Display: rec,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e, rec
}

// securityList builds the server's security handshake message.
func securityList(types ...SecurityType) []byte {
	msg := []byte{byte(len(types))}
	for _, st := range types {
		msg = append(msg, byte(st))
	}
	return msg
}

// securityResult builds the 4-byte security result message.
func securityResult(code uint32) []byte {
	msg := make([]byte, 4)
	binary.BigEndian.PutUint32(msg, code)
	return msg
}

// serverInit builds the ServerInit message.
func serverInit(width, height uint16, name string) []byte {
	msg := make([]byte, serverInitHeaderSize, serverInitHeaderSize+len(name))
	binary.BigEndian.PutUint16(msg[0:2], width)
	binary.BigEndian.PutUint16(msg[2:4], height)
	binary.BigEndian.PutUint32(msg[20:24], uint32(len(name)))
	return append(msg, name...)
}

// updateRect builds a single-rectangle FramebufferUpdate message.
func updateRect(x, y, width, height uint16, encoding int32, payload []byte) []byte {
	msg := make([]byte, updateHeaderSize, updateHeaderSize+len(payload))
	msg[0] = msgFramebufferUpdate
	binary.BigEndian.PutUint16(msg[2:4], 1)
	binary.BigEndian.PutUint16(msg[4:6], x)
	binary.BigEndian.PutUint16(msg[6:8], y)
	binary.BigEndian.PutUint16(msg[8:10], width)
	binary.BigEndian.PutUint16(msg[10:12], height)
	binary.BigEndian.PutUint32(msg[12:16], uint32(encoding))
	return append(msg, payload...)
}

// advanceToUpdates walks an engine through the full handshake.
func advanceToUpdates(t *testing.T, e *Engine, name string) {
	t.Helper()
	steps := [][]byte{
		securityList(SecurityTypeNone),
		securityResult(0),
		serverInit(800, 600, name),
	}
	for _, msg := range steps {
		n, err := e.Feed(msg)
		if err != nil {
			t.Fatalf("handshake step in state %s: %v", e.State(), err)
		}
		if n != len(msg) {
			t.Fatalf("handshake step consumed %d of %d bytes", n, len(msg))
		}
	}
	if e.State() != StateUpdates {
		t.Fatalf("state = %s, want %s", e.State(), StateUpdates)
	}
}

func TestNewEngineRequiresSender(t *testing.T) {
	if _, err := NewEngine(EngineConfig{}); !errors.Is(err, ErrNoSender) {
		t.Fatalf("NewEngine() error = %v, want %v", err, ErrNoSender)
	}
}

func TestSecurityHandshakeNeedsFullList(t *testing.T) {
	// For every list length n, fewer than 1+n buffered bytes must consume
	// nothing and cause no side effects, however often it is re-fed.
	for n := 1; n <= 5; n++ {
		e, rec := newTestEngine(t)
		types := make([]SecurityType, n)
		types[0] = SecurityTypeNone
		for i := 1; i < n; i++ {
			types[i] = SecurityTypeVNCAuth
		}
		msg := securityList(types...)

		for cut := 0; cut < len(msg); cut++ {
			for repeat := 0; repeat < 2; repeat++ {
				consumed, err := e.Feed(msg[:cut])
				if err != nil {
					t.Fatalf("n=%d cut=%d: Feed error %v", n, cut, err)
				}
				if consumed != 0 {
					t.Fatalf("n=%d cut=%d: consumed %d, want 0", n, cut, consumed)
				}
			}
			if len(rec.sent) != 0 || len(rec.aborts) != 0 {
				t.Fatalf("n=%d cut=%d: side effects on incomplete message", n, cut)
			}
			if e.State() != StateSecurityHandshake {
				t.Fatalf("n=%d cut=%d: state advanced on incomplete message", n, cut)
			}
		}

		consumed, err := e.Feed(msg)
		if err != nil {
			t.Fatalf("n=%d: Feed error %v", n, err)
		}
		if consumed != 1+n {
			t.Fatalf("n=%d: consumed %d, want %d", n, consumed, 1+n)
		}
	}
}

func TestSecurityHandshakeSelectsNone(t *testing.T) {
	e, rec := newTestEngine(t)

	consumed, err := e.Feed(securityList(SecurityTypeNone, SecurityTypeVNCAuth))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if consumed != 3 {
		t.Fatalf("consumed = %d, want 3", consumed)
	}
	if e.State() != StateSecurityResult {
		t.Fatalf("state = %s, want %s", e.State(), StateSecurityResult)
	}
	if len(rec.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(rec.sent))
	}
	if got := rec.sent[0]; len(got) != 1 || got[0] != securityReplyNone {
		t.Fatalf("security reply = % x, want [%02x]", got, securityReplyNone)
	}
}

func TestSecurityHandshakeEmptyListAborts(t *testing.T) {
	// A zero count aborts immediately, without waiting for further bytes.
	e, rec := newTestEngine(t)

	_, err := e.Feed([]byte{0})
	if !errors.Is(err, ErrNoSecurityTypes) {
		t.Fatalf("Feed error = %v, want %v", err, ErrNoSecurityTypes)
	}
	if len(rec.sent) != 0 {
		t.Fatalf("sent %d messages on abort, want 0", len(rec.sent))
	}
	if len(rec.aborts) != 1 {
		t.Fatalf("abort called %d times, want 1", len(rec.aborts))
	}
}

func TestSecurityHandshakeUnsupportedTypeAborts(t *testing.T) {
	e, rec := newTestEngine(t)

	_, err := e.Feed(securityList(SecurityTypeVNCAuth, SecurityTypeNone))
	if !errors.Is(err, ErrUnsupportedSecurityType) {
		t.Fatalf("Feed error = %v, want %v", err, ErrUnsupportedSecurityType)
	}
	if len(rec.sent) != 0 {
		t.Fatalf("sent %d messages, want 0 (abort before reply)", len(rec.sent))
	}
	if len(rec.aborts) != 1 {
		t.Fatalf("abort called %d times, want exactly 1", len(rec.aborts))
	}

	// The engine is latched; later feeds fail without another abort call.
	if _, err := e.Feed(securityList(SecurityTypeNone)); !errors.Is(err, ErrSessionFailed) {
		t.Fatalf("Feed after abort = %v, want %v", err, ErrSessionFailed)
	}
	if len(rec.aborts) != 1 {
		t.Fatalf("abort called %d times after latch, want 1", len(rec.aborts))
	}
}

func TestSecurityResult(t *testing.T) {
	t.Run("needs four bytes", func(t *testing.T) {
		e, rec := newTestEngine(t)
		advanceSecurityHandshake(t, e)

		for cut := 0; cut < 4; cut++ {
			consumed, err := e.Feed(securityResult(0)[:cut])
			if err != nil || consumed != 0 {
				t.Fatalf("cut=%d: Feed = (%d, %v), want (0, nil)", cut, consumed, err)
			}
		}
		if len(rec.sent) != 1 { // only the security reply so far
			t.Fatalf("sent %d messages, want 1", len(rec.sent))
		}
	})

	t.Run("zero status sends share flag", func(t *testing.T) {
		e, rec := newTestEngine(t)
		advanceSecurityHandshake(t, e)

		consumed, err := e.Feed(securityResult(0))
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if consumed != 4 {
			t.Fatalf("consumed = %d, want 4", consumed)
		}
		if e.State() != StateServerInit {
			t.Fatalf("state = %s, want %s", e.State(), StateServerInit)
		}
		if got := rec.sent[len(rec.sent)-1]; len(got) != 1 || got[0] != shareFlagOff {
			t.Fatalf("share flag reply = % x, want [%02x]", got, shareFlagOff)
		}
	})

	t.Run("non-zero status aborts", func(t *testing.T) {
		e, rec := newTestEngine(t)
		advanceSecurityHandshake(t, e)
		sentBefore := len(rec.sent)

		_, err := e.Feed(securityResult(1))
		if !errors.Is(err, ErrAuthenticationDenied) {
			t.Fatalf("Feed error = %v, want %v", err, ErrAuthenticationDenied)
		}
		if len(rec.sent) != sentBefore {
			t.Fatalf("sent a reply on denied authentication")
		}
		if len(rec.aborts) != 1 {
			t.Fatalf("abort called %d times, want 1", len(rec.aborts))
		}
	})
}

func advanceSecurityHandshake(t *testing.T, e *Engine) {
	t.Helper()
	if _, err := e.Feed(securityList(SecurityTypeNone)); err != nil {
		t.Fatalf("security handshake: %v", err)
	}
}

func TestServerInit(t *testing.T) {
	const name = "qemu:alpine"

	t.Run("waits for header and name", func(t *testing.T) {
		e, rec := newTestEngine(t)
		advanceSecurityHandshake(t, e)
		if _, err := e.Feed(securityResult(0)); err != nil {
			t.Fatalf("security result: %v", err)
		}

		msg := serverInit(1024, 768, name)
		for cut := 0; cut < len(msg); cut++ {
			consumed, err := e.Feed(msg[:cut])
			if err != nil || consumed != 0 {
				t.Fatalf("cut=%d: Feed = (%d, %v), want (0, nil)", cut, consumed, err)
			}
		}
		if len(rec.inits) != 0 {
			t.Fatalf("ServerInit delivered before message complete")
		}

		consumed, err := e.Feed(msg)
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if consumed != len(msg) {
			t.Fatalf("consumed = %d, want %d", consumed, len(msg))
		}
	})

	t.Run("decodes and advertises raw encoding", func(t *testing.T) {
		e, rec := newTestEngine(t)
		advanceToUpdates(t, e, name)

		if len(rec.inits) != 1 {
			t.Fatalf("ServerInit delivered %d times, want 1", len(rec.inits))
		}
		info := rec.inits[0]
		if info.Width != 800 || info.Height != 600 || info.Name != name {
			t.Fatalf("ServerInit = %dx%d %q", info.Width, info.Height, info.Name)
		}

		want := []byte{msgSetEncodings, 0, 0, 1, 0, 0, 0, 0}
		got := rec.sent[len(rec.sent)-1]
		if len(got) != len(want) {
			t.Fatalf("SetEncodings length = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("SetEncodings = % x, want % x", got, want)
			}
		}
	})

	t.Run("rejects oversized name length", func(t *testing.T) {
		e, rec := newTestEngine(t)
		advanceSecurityHandshake(t, e)
		if _, err := e.Feed(securityResult(0)); err != nil {
			t.Fatalf("security result: %v", err)
		}

		msg := serverInit(800, 600, "")
		binary.BigEndian.PutUint32(msg[20:24], MaxSessionNameLength+1)

		_, err := e.Feed(msg)
		if !errors.Is(err, ErrNameTooLong) {
			t.Fatalf("Feed error = %v, want %v", err, ErrNameTooLong)
		}
		if len(rec.aborts) != 1 {
			t.Fatalf("abort called %d times, want 1", len(rec.aborts))
		}
	})
}
