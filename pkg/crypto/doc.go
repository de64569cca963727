// Package crypto implements the symmetric transport-encryption primitives:
// password-based key derivation, stream-cipher backends, and a known-answer
// self test that gates which backends may be offered for a session.
//
// A session half holds one Encryptor (send path) or one Decryptor (receive
// path) bound to a single derived key and IV. Both are stateful: the
// keystream position advances across calls, so a sequence of Encrypt calls
// is equivalent to one call on the concatenated input. Instances must never
// be shared across sessions or called concurrently; the package provides no
// locking. DeriveKey and Validate are stateless and safe to call from any
// number of goroutines.
package crypto
