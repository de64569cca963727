package crypto

import (
	"bytes"
	"fmt"
)

// Known-answer fixture used by Validate. These are fixed configuration
// constants, not negotiated at runtime.
const (
	// DefaultSalt is the self-test key-derivation salt.
	DefaultSalt = "0000000000000000"

	// DefaultIV is the self-test IV. Backends with a shorter nonce use its
	// leading IVSize bytes.
	DefaultIV = "0000000000000000"

	// DefaultIterations is the self-test PBKDF2 work factor.
	DefaultIterations = 1000

	// DefaultKeySize is the self-test derived-key length in bytes.
	DefaultKeySize = 32
)

// validatePassword and validateMessage are the fixed self-test inputs.
const (
	validatePassword = "this is our secret"
	validateMessage  = "some message1234"
)

// Validate drives key derivation and the given backend through the
// known-answer fixtures and verifies round-trip correctness. It must pass
// before a backend is trusted for a live session; on failure the backend
// must not be offered at all.
//
// Checks, in order: deterministic key derivation, encryptor/decryptor
// construction, encrypt/decrypt round trips for empty, one-block, unaligned
// and multi-block messages, and streaming equivalence (chunked calls against
// a single call over the concatenated input).
func Validate(backend Backend) error {
	salt := []byte(DefaultSalt)

	key, err := DeriveKey(validatePassword, salt, DefaultIterations, DefaultKeySize)
	if err != nil {
		return fmt.Errorf("%w: key derivation: %v", ErrValidationFailed, err)
	}
	again, err := DeriveKey(validatePassword, salt, DefaultIterations, DefaultKeySize)
	if err != nil {
		return fmt.Errorf("%w: key derivation: %v", ErrValidationFailed, err)
	}
	if !bytes.Equal(key, again) {
		return fmt.Errorf("%w: key derivation is not deterministic", ErrValidationFailed)
	}

	if backend.KeySize() != DefaultKeySize {
		key, err = DeriveKey(validatePassword, salt, DefaultIterations, backend.KeySize())
		if err != nil {
			return fmt.Errorf("%w: key derivation for %s: %v", ErrValidationFailed, backend.Name(), err)
		}
	}

	if backend.IVSize() > len(DefaultIV) {
		return fmt.Errorf("%w: %s needs a %d-byte IV, fixture has %d",
			ErrValidationFailed, backend.Name(), backend.IVSize(), len(DefaultIV))
	}
	iv := []byte(DefaultIV)[:backend.IVSize()]

	messages := [][]byte{
		nil,                                            // empty
		[]byte(validateMessage),                        // one 16-byte block
		[]byte(validateMessage + "!"),                  // 17 bytes, block-unaligned
		bytes.Repeat([]byte("0123456789ABCDEF"), 256),  // 4 KiB
	}

	for _, msg := range messages {
		enc, err := backend.NewEncryptor(key, iv)
		if err != nil || enc == nil {
			return fmt.Errorf("%w: %s encryptor: %v", ErrValidationFailed, backend.Name(), err)
		}
		dec, err := backend.NewDecryptor(key, iv)
		if err != nil || dec == nil {
			return fmt.Errorf("%w: %s decryptor: %v", ErrValidationFailed, backend.Name(), err)
		}

		ct := enc.Encrypt(msg)
		if len(ct) != len(msg) {
			return fmt.Errorf("%w: %s ciphertext length %d for %d-byte message",
				ErrValidationFailed, backend.Name(), len(ct), len(msg))
		}
		if len(msg) > 0 && bytes.Equal(ct, msg) {
			return fmt.Errorf("%w: %s ciphertext equals plaintext", ErrValidationFailed, backend.Name())
		}
		if pt := dec.Decrypt(ct); !bytes.Equal(pt, msg) {
			return fmt.Errorf("%w: %s round trip mismatch", ErrValidationFailed, backend.Name())
		}
	}

	return validateStreaming(backend, key, iv)
}

// validateStreaming checks that cipher state carries across calls: chunked
// encryption and decryption must match the one-shot results byte for byte.
func validateStreaming(backend Backend, key, iv []byte) error {
	long := bytes.Repeat([]byte(validateMessage), 17) // deliberately unaligned total

	oneShot, err := backend.NewEncryptor(key, iv)
	if err != nil {
		return fmt.Errorf("%w: %s encryptor: %v", ErrValidationFailed, backend.Name(), err)
	}
	want := oneShot.Encrypt(long)

	chunked, err := backend.NewEncryptor(key, iv)
	if err != nil {
		return fmt.Errorf("%w: %s encryptor: %v", ErrValidationFailed, backend.Name(), err)
	}
	var got []byte
	for off := 0; off < len(long); off += 23 {
		end := off + 23
		if end > len(long) {
			end = len(long)
		}
		got = append(got, chunked.Encrypt(long[off:end])...)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: %s chunked encryption differs from one-shot",
			ErrValidationFailed, backend.Name())
	}

	dec, err := backend.NewDecryptor(key, iv)
	if err != nil {
		return fmt.Errorf("%w: %s decryptor: %v", ErrValidationFailed, backend.Name(), err)
	}
	var plain []byte
	for off := 0; off < len(want); off += 13 {
		end := off + 13
		if end > len(want) {
			end = len(want)
		}
		plain = append(plain, dec.Decrypt(want[off:end])...)
	}
	if !bytes.Equal(plain, long) {
		return fmt.Errorf("%w: %s chunked decryption differs from plaintext",
			ErrValidationFailed, backend.Name())
	}

	return nil
}
