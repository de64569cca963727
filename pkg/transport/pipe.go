package transport

import (
	"net"
	"sync"
	"time"

	"github.com/pion/transport/v3/test"
)

// PipeConfig configures a Pipe.
type PipeConfig struct {
	// AutoProcess enables automatic delivery in a background goroutine.
	// Default: true.
	AutoProcess bool

	// ProcessInterval is how often the auto-processor delivers queued
	// chunks. Default: 1ms.
	ProcessInterval time.Duration
}

// DefaultPipeConfig returns the default pipe configuration.
func DefaultPipeConfig() PipeConfig {
	return PipeConfig{
		AutoProcess:     true,
		ProcessInterval: 1 * time.Millisecond,
	}
}

// Pipe provides a bidirectional in-memory byte stream between two endpoints,
// built on pion's test.Bridge. Tests use it to drive a Stream and a fake
// server without real network I/O, and to control exactly how the byte
// stream is chunked (each write surfaces as its own read on the far side).
type Pipe struct {
	bridge *test.Bridge

	mu          sync.Mutex
	closed      bool
	autoProcess bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// NewPipe creates a pipe with auto-processing enabled.
func NewPipe() *Pipe {
	return NewPipeWithConfig(DefaultPipeConfig())
}

// NewPipeWithConfig creates a pipe with the given configuration.
func NewPipeWithConfig(config PipeConfig) *Pipe {
	p := &Pipe{
		bridge:      test.NewBridge(),
		autoProcess: config.AutoProcess,
		stopCh:      make(chan struct{}),
	}

	interval := config.ProcessInterval
	if interval == 0 {
		interval = 1 * time.Millisecond
	}

	if p.autoProcess {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-p.stopCh:
					return
				case <-ticker.C:
					p.bridge.Tick()
				}
			}
		}()
	}

	return p
}

// Conn0 returns the connection for endpoint 0.
func (p *Pipe) Conn0() net.Conn {
	return p.bridge.GetConn0()
}

// Conn1 returns the connection for endpoint 1.
func (p *Pipe) Conn1() net.Conn {
	return p.bridge.GetConn1()
}

// Tick delivers one queued chunk in each direction, if available. Only
// needed when auto-processing is disabled.
func (p *Pipe) Tick() int {
	return p.bridge.Tick()
}

// Process delivers all queued chunks in both directions.
func (p *Pipe) Process() int {
	count := 0
	for {
		n := p.Tick()
		if n == 0 {
			return count
		}
		count += n
	}
}

// Close stops auto-processing and closes both endpoints.
func (p *Pipe) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.autoProcess {
		close(p.stopCh)
	}
	p.mu.Unlock()

	p.wg.Wait()

	err0 := p.bridge.GetConn0().Close()
	err1 := p.bridge.GetConn1().Close()
	if err0 != nil {
		return err0
	}
	return err1
}
