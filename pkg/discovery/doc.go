// Package discovery finds RFB servers on the local network via DNS-SD.
//
// RFB servers advertise themselves as "_rfb._tcp" instances (RFC 6143
// Section 7.9). The Resolver browses for those instances over mDNS and
// resolves them to dialable host:port addresses.
package discovery
