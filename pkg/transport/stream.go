// Package transport delivers raw connection bytes to the protocol layer.
//
// RFB does its own framing, so the transport adds none: whatever chunk the
// connection read returns is handed to the data handler as-is. Reassembling
// message boundaries is the parser's job.
package transport

import (
	"io"
	"net"
	"sync"

	"github.com/pion/logging"
)

// DefaultReadBufferSize is the read chunk size used when none is configured.
const DefaultReadBufferSize = 4096

// DataHandler receives each chunk of raw bytes as it arrives. The chunk is
// owned by the handler; the transport never reuses it.
type DataHandler func(chunk []byte)

// ErrorHandler is notified when the read loop ends with a connection error.
// It is not called on Stop or when the peer closes cleanly.
type ErrorHandler func(err error)

// StreamConfig configures a Stream.
type StreamConfig struct {
	// Conn is the established connection to read and write. Required.
	Conn net.Conn

	// Handler is called for each received chunk. Required.
	Handler DataHandler

	// OnError is called when the read loop ends with an error. Optional.
	OnError ErrorHandler

	// ReadBufferSize is the maximum chunk size per read.
	// If zero, DefaultReadBufferSize is used.
	ReadBufferSize int

	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Stream pumps raw bytes between one net.Conn and the protocol layer. It
// owns a single read goroutine; Send may be called from any goroutine.
type Stream struct {
	conn    net.Conn
	handler DataHandler
	onError ErrorHandler
	bufSize int
	log     logging.LeveledLogger

	closeCh chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewStream creates a Stream around an established connection.
func NewStream(config StreamConfig) (*Stream, error) {
	if config.Conn == nil {
		return nil, ErrNoConn
	}
	if config.Handler == nil {
		return nil, ErrNoHandler
	}

	s := &Stream{
		conn:    config.Conn,
		handler: config.Handler,
		onError: config.OnError,
		bufSize: config.ReadBufferSize,
		closeCh: make(chan struct{}),
	}
	if s.bufSize <= 0 {
		s.bufSize = DefaultReadBufferSize
	}
	if config.LoggerFactory != nil {
		s.log = config.LoggerFactory.NewLogger("transport-stream")
	}

	return s, nil
}

// Dial connects to addr over TCP and returns a Stream around the new
// connection. The remaining config fields are used as in NewStream.
func Dial(addr string, config StreamConfig) (*Stream, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	config.Conn = conn
	return NewStream(config)
}

// Start begins the read loop.
func (s *Stream) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	if s.log != nil {
		s.log.Infof("starting stream transport to %s", s.conn.RemoteAddr())
	}

	s.wg.Add(1)
	go s.readLoop()

	return nil
}

// Send writes data to the connection.
func (s *Stream) Send(data []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	_, err := s.conn.Write(data)
	return err
}

// Stop closes the connection and waits for the read loop to exit.
// It is safe to call Stop more than once.
func (s *Stream) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.log != nil {
		s.log.Info("stopping stream transport")
	}

	close(s.closeCh)
	err := s.conn.Close()
	s.wg.Wait()
	return err
}

// LocalAddr returns the connection's local address.
func (s *Stream) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// RemoteAddr returns the connection's remote address.
func (s *Stream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// readLoop reads connection bytes and hands each chunk to the handler.
func (s *Stream) readLoop() {
	defer s.wg.Done()

	buf := make([]byte, s.bufSize)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			// Copy: the handler may retain the chunk past this iteration.
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.handler(chunk)
		}
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			if err == io.EOF {
				if s.log != nil {
					s.log.Debug("peer closed the connection")
				}
				return
			}
			if s.log != nil {
				s.log.Warnf("read error: %v", err)
			}
			if s.onError != nil {
				s.onError(err)
			}
			return
		}
	}
}
