package discovery

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
)

// ServiceRFB is the DNS-SD service type RFB servers register under.
// RFC 6143 Section 7.9.
const ServiceRFB = "_rfb._tcp"

// DefaultDomain is the DNS-SD domain used for local discovery.
const DefaultDomain = "local."

// DefaultBrowseTimeout is the default timeout for browse operations.
const DefaultBrowseTimeout = 10 * time.Second

// DefaultLookupTimeout is the default timeout for lookup operations.
const DefaultLookupTimeout = 5 * time.Second

// ResolvedService contains information about a discovered RFB server.
type ResolvedService struct {
	// InstanceName is the DNS-SD instance name, typically the session name
	// the server will repeat in its initialization message.
	InstanceName string

	// HostName is the target host name.
	HostName string

	// Port is the service port. RFB servers conventionally listen on
	// 5900 + display number.
	Port int

	// IPs contains the resolved IP addresses, sorted by preference.
	IPs []net.IP

	// Text contains the raw TXT record key-value pairs.
	Text map[string]string
}

// PreferredIP returns the most preferred IP address (first in the sorted
// list). Returns nil if no addresses are available.
func (r *ResolvedService) PreferredIP() net.IP {
	if len(r.IPs) > 0 {
		return r.IPs[0]
	}
	return nil
}

// Addr returns a dialable host:port string for the preferred address.
func (r *ResolvedService) Addr() (string, error) {
	ip := r.PreferredIP()
	if ip == nil {
		return "", ErrNoAddresses
	}
	return net.JoinHostPort(ip.String(), strconv.Itoa(r.Port)), nil
}

// MDNSResolver is the interface for mDNS service resolution.
// This allows for dependency injection in tests.
type MDNSResolver interface {
	// Browse browses for services of the given type.
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

	// Lookup looks up a specific service instance.
	Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// zeroconfResolver is the production implementation using grandcat/zeroconf.
type zeroconfResolver struct {
	resolver *zeroconf.Resolver
}

func newZeroconfResolver() (*zeroconfResolver, error) {
	r, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, err
	}
	return &zeroconfResolver{resolver: r}, nil
}

func (z *zeroconfResolver) Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return z.resolver.Browse(ctx, service, domain, entries)
}

func (z *zeroconfResolver) Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	return z.resolver.Lookup(ctx, instance, service, domain, entries)
}

// ResolverConfig holds configuration for the Resolver.
type ResolverConfig struct {
	// MDNSResolver is the underlying mDNS resolver implementation.
	// If nil, the default zeroconf resolver is used.
	MDNSResolver MDNSResolver

	// BrowseTimeout is the timeout for browse operations.
	// If zero, DefaultBrowseTimeout is used.
	BrowseTimeout time.Duration

	// LookupTimeout is the timeout for lookup operations.
	// If zero, DefaultLookupTimeout is used.
	LookupTimeout time.Duration
}

// Resolver discovers RFB servers via DNS-SD.
type Resolver struct {
	config   ResolverConfig
	resolver MDNSResolver
}

// NewResolver creates a new Resolver with the given configuration.
func NewResolver(config ResolverConfig) (*Resolver, error) {
	resolver := config.MDNSResolver
	if resolver == nil {
		zr, err := newZeroconfResolver()
		if err != nil {
			return nil, err
		}
		resolver = zr
	}

	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = DefaultBrowseTimeout
	}
	if config.LookupTimeout == 0 {
		config.LookupTimeout = DefaultLookupTimeout
	}

	return &Resolver{
		config:   config,
		resolver: resolver,
	}, nil
}

// Browse discovers RFB servers on the network. It returns a channel that
// receives discovered services until the context is cancelled or the browse
// timeout expires, then closes.
func (r *Resolver) Browse(ctx context.Context) (<-chan ResolvedService, error) {
	results := make(chan ResolvedService)
	entries := make(chan *zeroconf.ServiceEntry)

	// Apply browse timeout if context doesn't have a deadline
	cancel := context.CancelFunc(func() {})
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, r.config.BrowseTimeout)
	}

	go func() {
		defer close(results)
		defer cancel()

		go func() {
			defer close(entries)
			r.resolver.Browse(ctx, ServiceRFB, DefaultDomain, entries) //nolint:errcheck
		}()

		for entry := range entries {
			svc := entryToResolvedService(entry)
			select {
			case results <- svc:
			case <-ctx.Done():
				return
			}
		}
	}()

	return results, nil
}

// Lookup resolves a specific RFB server instance by name. It returns the
// first matching result, ErrTimeout if the lookup deadline passes, or the
// context's error if it is cancelled.
func (r *Resolver) Lookup(ctx context.Context, instanceName string) (*ResolvedService, error) {
	// Apply lookup timeout if context doesn't have a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.LookupTimeout)
		defer cancel()
	}

	entries := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(entries)
		r.resolver.Lookup(ctx, instanceName, ServiceRFB, DefaultDomain, entries) //nolint:errcheck
	}()

	select {
	case entry, ok := <-entries:
		if !ok || entry == nil {
			return nil, ErrServiceNotFound
		}
		svc := entryToResolvedService(entry)
		return &svc, nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

// entryToResolvedService converts a zeroconf.ServiceEntry to ResolvedService.
func entryToResolvedService(entry *zeroconf.ServiceEntry) ResolvedService {
	var allIPs []net.IP
	allIPs = append(allIPs, entry.AddrIPv6...)
	allIPs = append(allIPs, entry.AddrIPv4...)

	return ResolvedService{
		InstanceName: entry.Instance,
		HostName:     entry.HostName,
		Port:         entry.Port,
		IPs:          SortIPsByPreference(allIPs),
		Text:         ParseTXT(entry.Text),
	}
}
