package rfb

// Session owns the accumulation buffer for one connection and drives an
// Engine with it. Bytes arrive from the transport in arbitrary chunks;
// Receive appends them and feeds the engine until it stops making progress,
// then keeps the undispatched remainder for the next delivery.
//
// Session is not safe for concurrent use. It is intended to be driven by
// the single goroutine that reads the connection.
type Session struct {
	engine *Engine
	buf    []byte
}

// NewSession creates a Session around an existing Engine.
func NewSession(engine *Engine) *Session {
	return &Session{engine: engine}
}

// Engine returns the session's underlying parser.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Buffered returns the number of undispatched bytes currently held.
func (s *Session) Buffered() int {
	return len(s.buf)
}

// Receive appends a chunk of raw transport bytes and parses as many
// complete messages as the buffer now holds. A fatal parse error empties
// the buffer and is returned; the session accepts no further input after
// that.
func (s *Session) Receive(chunk []byte) error {
	s.buf = append(s.buf, chunk...)

	for len(s.buf) > 0 {
		n, err := s.engine.Feed(s.buf)
		if err != nil {
			s.buf = nil
			return err
		}
		if n == 0 {
			// Incomplete message; wait for more bytes.
			return nil
		}
		// Drop the consumed prefix in place so the backing array is reused.
		s.buf = s.buf[:copy(s.buf, s.buf[n:])]
	}

	return nil
}
