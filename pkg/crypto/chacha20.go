package crypto

import (
	"crypto/cipher"

	"golang.org/x/crypto/chacha20"
)

// ChaCha20Backend produces ChaCha20 encryptors and decryptors (RFC 8439).
// The key is fixed at 32 bytes and the nonce at 12.
type ChaCha20Backend struct{}

// Name returns "chacha20".
func (b *ChaCha20Backend) Name() string { return "chacha20" }

// KeySize returns the ChaCha20 key length.
func (b *ChaCha20Backend) KeySize() int { return chacha20.KeySize }

// IVSize returns the ChaCha20 nonce length.
func (b *ChaCha20Backend) IVSize() int { return chacha20.NonceSize }

// NewEncryptor returns a stateful ChaCha20 encryptor bound to (key, iv).
func (b *ChaCha20Backend) NewEncryptor(key, iv []byte) (Encryptor, error) {
	stream, err := b.newStream(key, iv)
	if err != nil {
		return nil, err
	}
	return &streamEncryptor{stream: stream}, nil
}

// NewDecryptor returns a stateful ChaCha20 decryptor bound to (key, iv).
func (b *ChaCha20Backend) NewDecryptor(key, iv []byte) (Decryptor, error) {
	stream, err := b.newStream(key, iv)
	if err != nil {
		return nil, err
	}
	return &streamDecryptor{stream: stream}, nil
}

func (b *ChaCha20Backend) newStream(key, iv []byte) (cipher.Stream, error) {
	if len(key) != chacha20.KeySize {
		return nil, ErrInvalidKeySize
	}
	if len(iv) != chacha20.NonceSize {
		return nil, ErrInvalidIVSize
	}
	stream, err := chacha20.NewUnauthenticatedCipher(key, iv)
	if err != nil {
		return nil, err
	}
	return stream, nil
}
