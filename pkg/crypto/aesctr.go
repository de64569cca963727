// AES-CTR backend (NIST 800-38A Section 6.5). CTR turns AES into a stream
// cipher: the keystream position is the cipher state, so encryption is
// chunking-independent but each (key, IV) pair must only ever be used for
// one session half.

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
)

// AESCTRBackend produces AES-CTR encryptors and decryptors. Keys of 16, 24
// or 32 bytes select AES-128/192/256; the IV is one AES block.
type AESCTRBackend struct{}

// Name returns "aes-ctr".
func (b *AESCTRBackend) Name() string { return "aes-ctr" }

// KeySize returns the preferred key length (AES-256).
func (b *AESCTRBackend) KeySize() int { return 32 }

// IVSize returns the AES block size.
func (b *AESCTRBackend) IVSize() int { return aes.BlockSize }

// NewEncryptor returns a stateful AES-CTR encryptor bound to (key, iv).
func (b *AESCTRBackend) NewEncryptor(key, iv []byte) (Encryptor, error) {
	stream, err := b.newStream(key, iv)
	if err != nil {
		return nil, err
	}
	return &streamEncryptor{stream: stream}, nil
}

// NewDecryptor returns a stateful AES-CTR decryptor bound to (key, iv).
func (b *AESCTRBackend) NewDecryptor(key, iv []byte) (Decryptor, error) {
	stream, err := b.newStream(key, iv)
	if err != nil {
		return nil, err
	}
	return &streamDecryptor{stream: stream}, nil
}

func (b *AESCTRBackend) newStream(key, iv []byte) (cipher.Stream, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeySize
	}
	if len(iv) != aes.BlockSize {
		return nil, ErrInvalidIVSize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewCTR(block, iv), nil
}
