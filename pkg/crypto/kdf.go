package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// MinIterations is the lower bound on the PBKDF2 work factor. Requesting
// fewer iterations is a security regression, not a performance knob, so it
// is rejected rather than clamped.
const MinIterations = 1

// DeriveKey stretches a passphrase into a keySize-byte secret using
// PBKDF2-HMAC-SHA256 (NIST 800-132). Identical inputs always produce an
// identical secret.
//
// keySize must be a key length supported by one of the cipher backends
// (16, 24 or 32 bytes); anything else is a configuration error.
func DeriveKey(password string, salt []byte, iterations, keySize int) ([]byte, error) {
	if iterations < MinIterations {
		return nil, ErrInvalidIterations
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}
	switch keySize {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeySize
	}

	return pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New), nil
}
