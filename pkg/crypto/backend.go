package crypto

import "crypto/cipher"

// Encryptor encrypts a plaintext stream. Keystream state carries across
// calls: Encrypt(a) followed by Encrypt(b) produces the same bytes as
// Encrypt(a||b) on a fresh instance.
type Encryptor interface {
	Encrypt(plaintext []byte) []byte
}

// Decryptor is the receiving counterpart of an Encryptor constructed from
// the same key and IV. It accepts any re-chunking of the ciphertext stream.
type Decryptor interface {
	Decrypt(ciphertext []byte) []byte
}

// Backend constructs the encrypt and decrypt halves of a session from a
// derived key and an IV. Implementations wrap one fixed cipher/mode pair.
type Backend interface {
	// Name identifies the cipher/mode pair, e.g. "aes-ctr".
	Name() string

	// KeySize is the key length in bytes the backend expects from DeriveKey.
	KeySize() int

	// IVSize is the required IV (nonce) length in bytes.
	IVSize() int

	// NewEncryptor returns a fresh stateful Encryptor bound to (key, iv).
	NewEncryptor(key, iv []byte) (Encryptor, error)

	// NewDecryptor returns a fresh stateful Decryptor bound to (key, iv).
	// Encryptor and Decryptor instances are independent and must not be
	// interchanged between the send and receive paths.
	NewDecryptor(key, iv []byte) (Decryptor, error)
}

// streamEncryptor adapts a stdlib cipher.Stream to the Encryptor contract.
type streamEncryptor struct {
	stream cipher.Stream
}

func (e *streamEncryptor) Encrypt(plaintext []byte) []byte {
	out := make([]byte, len(plaintext))
	e.stream.XORKeyStream(out, plaintext)
	return out
}

// streamDecryptor adapts a stdlib cipher.Stream to the Decryptor contract.
type streamDecryptor struct {
	stream cipher.Stream
}

func (d *streamDecryptor) Decrypt(ciphertext []byte) []byte {
	out := make([]byte, len(ciphertext))
	d.stream.XORKeyStream(out, ciphertext)
	return out
}

// Backends returns all known cipher backends, validated or not. Callers
// that need a trusted backend should use AvailableBackends instead.
func Backends() []Backend {
	return []Backend{
		&AESCTRBackend{},
		&ChaCha20Backend{},
	}
}

// AvailableBackends returns the known backends that pass the known-answer
// self test. Backends that fail validation are excluded so they are never
// offered for a session.
func AvailableBackends() []Backend {
	var out []Backend
	for _, b := range Backends() {
		if Validate(b) == nil {
			out = append(out, b)
		}
	}
	return out
}
