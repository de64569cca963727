package crypto

import "errors"

// Configuration and backend errors. Key-derivation errors are configuration
// mistakes the caller must fix; they are never worked around by silently
// substituting weaker parameters.
var (
	// ErrInvalidIterations is returned when the iteration count is below
	// the minimum work factor.
	ErrInvalidIterations = errors.New("crypto: iteration count must be at least 1")

	// ErrEmptySalt is returned when key derivation is attempted without a salt.
	ErrEmptySalt = errors.New("crypto: salt must not be empty")

	// ErrInvalidKeySize is returned when the requested key length is not
	// supported by the selected cipher.
	ErrInvalidKeySize = errors.New("crypto: unsupported key size")

	// ErrInvalidIVSize is returned when the IV length does not match the
	// cipher's requirement.
	ErrInvalidIVSize = errors.New("crypto: invalid IV size")

	// ErrValidationFailed is returned by Validate when a backend does not
	// reproduce the known-answer fixtures. The backend must not be used.
	ErrValidationFailed = errors.New("crypto: backend validation failed")
)
