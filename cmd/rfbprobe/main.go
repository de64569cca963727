// rfbprobe connects to an RFB (VNC) server, performs the client side of the
// security handshake, and logs the session parameters and incoming
// framebuffer updates.
//
// Usage:
//
//	rfbprobe [options]
//
// Options:
//
//	-addr     Server address as host:port (default: 127.0.0.1:5900)
//	-discover Browse for "_rfb._tcp" servers via mDNS instead of dialing
//	-lookup   Resolve a specific mDNS instance name and connect to it
//	-timeout  How long to run before disconnecting (default: 30s)
//	-verbose  Enable debug logging
//
// Example:
//
//	rfbprobe -addr 192.168.1.50:5901 -timeout 10s
//	rfbprobe -discover
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pion/logging"

	"github.com/anqidong/rfbcore/pkg/crypto"
	"github.com/anqidong/rfbcore/pkg/discovery"
	"github.com/anqidong/rfbcore/pkg/rfb"
	"github.com/anqidong/rfbcore/pkg/transport"
)

type options struct {
	addr     string
	discover bool
	lookup   string
	timeout  time.Duration
	verbose  bool
}

func parseFlags() options {
	o := options{}
	flag.StringVar(&o.addr, "addr", "127.0.0.1:5900", "Server address (host:port)")
	flag.BoolVar(&o.discover, "discover", false, "Browse for RFB servers via mDNS and exit")
	flag.StringVar(&o.lookup, "lookup", "", "Resolve an mDNS instance name and connect to it")
	flag.DurationVar(&o.timeout, "timeout", 30*time.Second, "How long to run before disconnecting")
	flag.BoolVar(&o.verbose, "verbose", false, "Enable debug logging")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	loggerFactory := logging.NewDefaultLoggerFactory()
	if opts.verbose {
		loggerFactory.DefaultLogLevel = logging.LogLevelDebug
	}

	// Refuse to start if any cipher backend fails its self-test.
	for _, backend := range crypto.Backends() {
		if err := crypto.Validate(backend); err != nil {
			log.Fatalf("Cipher backend %s failed validation: %v", backend.Name(), err)
		}
	}

	if opts.discover {
		if err := runDiscover(); err != nil {
			log.Fatalf("Discovery failed: %v", err)
		}
		return
	}

	addr := opts.addr
	if opts.lookup != "" {
		resolved, err := lookupInstance(opts.lookup)
		if err != nil {
			log.Fatalf("Lookup %q failed: %v", opts.lookup, err)
		}
		addr = resolved
		log.Printf("Resolved %q to %s", opts.lookup, addr)
	}

	if err := runProbe(addr, opts.timeout, loggerFactory); err != nil {
		log.Fatalf("Probe failed: %v", err)
	}
}

// runDiscover browses for RFB servers and prints each one found.
func runDiscover() error {
	resolver, err := discovery.NewResolver(discovery.ResolverConfig{})
	if err != nil {
		return err
	}

	results, err := resolver.Browse(context.Background())
	if err != nil {
		return err
	}

	count := 0
	for svc := range results {
		addr, err := svc.Addr()
		if err != nil {
			addr = fmt.Sprintf("%s:%d (no addresses)", svc.HostName, svc.Port)
		}
		log.Printf("Found %q at %s", svc.InstanceName, addr)
		count++
	}

	log.Printf("Browse finished, %d server(s) found", count)
	return nil
}

// lookupInstance resolves a single mDNS instance name to host:port.
func lookupInstance(instance string) (string, error) {
	resolver, err := discovery.NewResolver(discovery.ResolverConfig{})
	if err != nil {
		return "", err
	}

	svc, err := resolver.Lookup(context.Background(), instance)
	if err != nil {
		return "", err
	}
	return svc.Addr()
}

// probeDisplay logs session parameters and update geometry.
type probeDisplay struct {
	updates int
}

func (d *probeDisplay) HandleServerInit(info rfb.ServerInit) {
	log.Printf("Server %q: %dx%d", info.Name, info.Width, info.Height)
}

func (d *probeDisplay) HandleUpdate(rect rfb.Rectangle, pixels []byte) {
	d.updates++
	log.Printf("Update #%d: %dx%d at (%d,%d), %d bytes",
		d.updates, rect.Width, rect.Height, rect.X, rect.Y, len(pixels))
}

func runProbe(addr string, timeout time.Duration, loggerFactory logging.LoggerFactory) error {
	fatalCh := make(chan error, 1)

	var stream *transport.Stream
	engine, err := rfb.NewEngine(rfb.EngineConfig{
		Send: func(data []byte) error {
			return stream.Send(data)
		},
		Abort: func(data []byte, err error) {
			select {
			case fatalCh <- err:
			default:
			}
		},
		Display:       &probeDisplay{},
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}
	session := rfb.NewSession(engine)

	stream, err = transport.Dial(addr, transport.StreamConfig{
		Handler: func(chunk []byte) {
			session.Receive(chunk) //nolint:errcheck
		},
		OnError: func(err error) {
			select {
			case fatalCh <- err:
			default:
			}
		},
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop() //nolint:errcheck

	log.Printf("Connected to %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-fatalCh:
		return err
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
		return nil
	case <-time.After(timeout):
		log.Printf("Timeout reached, disconnecting")
		return nil
	}
}
