package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func testKeyIV(t *testing.T, backend Backend) ([]byte, []byte) {
	t.Helper()
	key, err := DeriveKey("backend test secret", []byte(DefaultSalt), DefaultIterations, backend.KeySize())
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	return key, []byte(DefaultIV)[:backend.IVSize()]
}

func TestBackendRoundTrip(t *testing.T) {
	for _, backend := range Backends() {
		t.Run(backend.Name(), func(t *testing.T) {
			key, iv := testKeyIV(t, backend)

			sizes := []int{0, 1, 16, 17, 4096}
			for _, size := range sizes {
				msg := bytes.Repeat([]byte{0xA5}, size)

				enc, err := backend.NewEncryptor(key, iv)
				if err != nil {
					t.Fatalf("NewEncryptor: %v", err)
				}
				dec, err := backend.NewDecryptor(key, iv)
				if err != nil {
					t.Fatalf("NewDecryptor: %v", err)
				}

				ct := enc.Encrypt(msg)
				if size > 0 && bytes.Equal(ct, msg) {
					t.Fatalf("size=%d: ciphertext equals plaintext", size)
				}
				if pt := dec.Decrypt(ct); !bytes.Equal(pt, msg) {
					t.Fatalf("size=%d: round trip failed", size)
				}
			}
		})
	}
}

func TestBackendStreamingState(t *testing.T) {
	// Chunked calls must produce the same bytes as a single call over the
	// concatenated input, for any chunking on either side.
	for _, backend := range Backends() {
		t.Run(backend.Name(), func(t *testing.T) {
			key, iv := testKeyIV(t, backend)
			msg := bytes.Repeat([]byte("stream cipher state"), 50)

			oneShot, err := backend.NewEncryptor(key, iv)
			if err != nil {
				t.Fatalf("NewEncryptor: %v", err)
			}
			want := oneShot.Encrypt(msg)

			for _, chunk := range []int{1, 7, 16, 100} {
				enc, err := backend.NewEncryptor(key, iv)
				if err != nil {
					t.Fatalf("NewEncryptor: %v", err)
				}
				var got []byte
				for off := 0; off < len(msg); off += chunk {
					end := off + chunk
					if end > len(msg) {
						end = len(msg)
					}
					got = append(got, enc.Encrypt(msg[off:end])...)
				}
				if !bytes.Equal(got, want) {
					t.Fatalf("chunk=%d: chunked ciphertext differs from one-shot", chunk)
				}

				dec, err := backend.NewDecryptor(key, iv)
				if err != nil {
					t.Fatalf("NewDecryptor: %v", err)
				}
				var plain []byte
				for off := 0; off < len(want); off += chunk {
					end := off + chunk
					if end > len(want) {
						end = len(want)
					}
					plain = append(plain, dec.Decrypt(want[off:end])...)
				}
				if !bytes.Equal(plain, msg) {
					t.Fatalf("chunk=%d: chunked decryption differs from plaintext", chunk)
				}
			}
		})
	}
}

func TestBackendRejectsBadKeyAndIV(t *testing.T) {
	for _, backend := range Backends() {
		t.Run(backend.Name(), func(t *testing.T) {
			key, iv := testKeyIV(t, backend)

			if _, err := backend.NewEncryptor(key[:5], iv); !errors.Is(err, ErrInvalidKeySize) {
				t.Fatalf("short key: error = %v, want %v", err, ErrInvalidKeySize)
			}
			if _, err := backend.NewDecryptor(key[:5], iv); !errors.Is(err, ErrInvalidKeySize) {
				t.Fatalf("short key: error = %v, want %v", err, ErrInvalidKeySize)
			}
			if _, err := backend.NewEncryptor(key, iv[:backend.IVSize()-1]); !errors.Is(err, ErrInvalidIVSize) {
				t.Fatalf("short IV: error = %v, want %v", err, ErrInvalidIVSize)
			}
			if _, err := backend.NewEncryptor(key, append(iv, 0)); !errors.Is(err, ErrInvalidIVSize) {
				t.Fatalf("long IV: error = %v, want %v", err, ErrInvalidIVSize)
			}
		})
	}
}

func TestAESCTRKeyLengths(t *testing.T) {
	backend := &AESCTRBackend{}
	iv := []byte(DefaultIV)[:backend.IVSize()]

	for _, size := range []int{16, 24, 32} {
		key, err := DeriveKey("key length test", []byte(DefaultSalt), DefaultIterations, size)
		if err != nil {
			t.Fatalf("DeriveKey(%d): %v", size, err)
		}
		enc, err := backend.NewEncryptor(key, iv)
		if err != nil {
			t.Fatalf("NewEncryptor with %d-byte key: %v", size, err)
		}
		dec, err := backend.NewDecryptor(key, iv)
		if err != nil {
			t.Fatalf("NewDecryptor with %d-byte key: %v", size, err)
		}
		msg := []byte("aes key length check")
		if !bytes.Equal(dec.Decrypt(enc.Encrypt(msg)), msg) {
			t.Fatalf("round trip failed for %d-byte key", size)
		}
	}
}

func TestChaCha20RejectsNon32ByteKey(t *testing.T) {
	backend := &ChaCha20Backend{}
	iv := []byte(DefaultIV)[:backend.IVSize()]

	key, err := DeriveKey("chacha key test", []byte(DefaultSalt), DefaultIterations, 16)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if _, err := backend.NewEncryptor(key, iv); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("16-byte key: error = %v, want %v", err, ErrInvalidKeySize)
	}
}

func TestEncryptorsAreIndependent(t *testing.T) {
	// Two encryptors from the same (key, IV) start at the same keystream
	// position; advancing one must not advance the other.
	for _, backend := range Backends() {
		t.Run(backend.Name(), func(t *testing.T) {
			key, iv := testKeyIV(t, backend)

			a, err := backend.NewEncryptor(key, iv)
			if err != nil {
				t.Fatalf("NewEncryptor: %v", err)
			}
			b, err := backend.NewEncryptor(key, iv)
			if err != nil {
				t.Fatalf("NewEncryptor: %v", err)
			}

			msg := []byte("independent state")
			first := a.Encrypt(msg)
			a.Encrypt(msg) // advance a only
			if got := b.Encrypt(msg); !bytes.Equal(got, first) {
				t.Fatalf("fresh encryptor diverged from first call: %x vs %x", got, first)
			}
		})
	}
}
