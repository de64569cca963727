// Package rfb implements the client side of the RFB (remote framebuffer)
// handshake and steady-state framing.
//
// The package is built around an incremental parser: the transport layer
// appends raw bytes to a session buffer and re-presents the entire
// unconsumed run to the Engine on every delivery. Each parse step either
// consumes an exact message prefix, reports that more bytes are needed, or
// fails the session permanently.
//
// A session moves through the following states:
//   - StateSecurityHandshake: security-type list from the server
//   - StateSecurityResult: 32-bit authentication result
//   - StateServerInit: framebuffer geometry, pixel format and session name
//   - StateUpdates: framebuffer update rectangles (Raw encoding only)
//
// The Engine never owns the connection. Outbound protocol replies go through
// a send callback and fatal protocol violations are reported through an
// abort callback; retry and teardown policy belong to the caller.
package rfb
