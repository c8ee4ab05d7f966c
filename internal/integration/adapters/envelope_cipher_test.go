package adapters

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"

	domainErr "github.com/isakbosman/manna/internal/domain/error"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestEnvelopeCipher_RoundTrip(t *testing.T) {
	cipher, err := NewEnvelopeCipher(testKey(t), "", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name      string
		plaintext string
	}{
		{"access token", "access-sandbox-7c1e2f9a-55d1-4bd0-91a3-ffb7a3c91e22"},
		{"empty string", ""},
		{"unicode", "tøkén-ßecret-日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := cipher.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if sealed == tt.plaintext {
				t.Error("ciphertext must differ from plaintext")
			}

			opened, err := cipher.Decrypt(sealed)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if opened != tt.plaintext {
				t.Errorf("expected %q, got %q", tt.plaintext, opened)
			}
		})
	}
}

func TestEnvelopeCipher_Encrypt(t *testing.T) {
	t.Run("should produce distinct ciphertexts for the same plaintext", func(t *testing.T) {
		c, err := NewEnvelopeCipher(testKey(t), "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		a, _ := c.Encrypt("same-secret")
		b, _ := c.Encrypt("same-secret")
		if a == b {
			t.Error("nonce reuse: two encryptions produced identical ciphertexts")
		}
	})

	t.Run("should reject keys of the wrong size", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("too-short"))
		if _, err := NewEnvelopeCipher(short, "", ""); err == nil {
			t.Error("expected error for 9-byte key")
		}
	})

	t.Run("should reject keys that are not base64", func(t *testing.T) {
		if _, err := NewEnvelopeCipher("not base64!!", "", ""); err == nil {
			t.Error("expected error for invalid base64 key")
		}
	})
}

func TestEnvelopeCipher_Decrypt(t *testing.T) {
	c, err := NewEnvelopeCipher(testKey(t), "", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("should fail on tampered ciphertext", func(t *testing.T) {
		sealed, _ := c.Encrypt("secret")
		raw, _ := base64.StdEncoding.DecodeString(sealed)
		raw[len(raw)-1] ^= 0xFF
		tampered := base64.StdEncoding.EncodeToString(raw)

		_, err := c.Decrypt(tampered)
		if !errors.Is(err, domainErr.ErrTokenDecryptFailed) && !isDecryptError(err) {
			t.Errorf("expected decrypt failure, got %v", err)
		}
	})

	t.Run("should fail with the wrong key", func(t *testing.T) {
		other, _ := NewEnvelopeCipher(testKey(t), "", "")
		sealed, _ := c.Encrypt("secret")

		if _, err := other.Decrypt(sealed); !isDecryptError(err) {
			t.Errorf("expected decrypt failure, got %v", err)
		}
	})

	t.Run("should fail on unknown version byte", func(t *testing.T) {
		sealed, _ := c.Encrypt("secret")
		raw, _ := base64.StdEncoding.DecodeString(sealed)
		raw[0] = 0x09
		bogus := base64.StdEncoding.EncodeToString(raw)

		if _, err := c.Decrypt(bogus); !isDecryptError(err) {
			t.Errorf("expected decrypt failure, got %v", err)
		}
	})

	t.Run("should fail on truncated input", func(t *testing.T) {
		if _, err := c.Decrypt(base64.StdEncoding.EncodeToString([]byte{0x02, 0x01})); !isDecryptError(err) {
			t.Errorf("expected decrypt failure, got %v", err)
		}
	})

	t.Run("should fail on garbage input", func(t *testing.T) {
		if _, err := c.Decrypt("%%% not base64 %%%"); !isDecryptError(err) {
			t.Errorf("expected decrypt failure, got %v", err)
		}
	})
}

func TestEnvelopeCipher_Legacy(t *testing.T) {
	const (
		legacySecret = "legacy-master-secret"
		legacySalt   = "legacy-salt"
	)

	// Seal a value exactly the way the old scheme did: version 0x01, key
	// derived via pbkdf2, no embedded timestamp.
	sealLegacy := func(t *testing.T, plaintext string) string {
		t.Helper()
		key := pbkdf2.Key([]byte(legacySecret), []byte(legacySalt), legacyIterCount, 32, sha256.New)
		block, err := aes.NewCipher(key)
		if err != nil {
			t.Fatalf("failed to create cipher: %v", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			t.Fatalf("failed to create gcm: %v", err)
		}
		nonce := make([]byte, nonceSize)
		if _, err := rand.Read(nonce); err != nil {
			t.Fatalf("failed to generate nonce: %v", err)
		}
		sealed := gcm.Seal(nil, nonce, []byte(plaintext), []byte{envelopeVersionLegacy})

		out := append([]byte{envelopeVersionLegacy}, nonce...)
		out = append(out, sealed...)
		return base64.StdEncoding.EncodeToString(out)
	}

	t.Run("should decrypt legacy values", func(t *testing.T) {
		c, err := NewEnvelopeCipher(testKey(t), legacySecret, legacySalt)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		sealed := sealLegacy(t, "old-access-token")
		opened, err := c.Decrypt(sealed)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if opened != "old-access-token" {
			t.Errorf("expected old-access-token, got %q", opened)
		}
	})

	t.Run("should flag legacy values for rotation", func(t *testing.T) {
		c, err := NewEnvelopeCipher(testKey(t), legacySecret, legacySalt)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !c.NeedsRotation(sealLegacy(t, "old")) {
			t.Error("expected legacy value to need rotation")
		}

		fresh, _ := c.Encrypt("new")
		if c.NeedsRotation(fresh) {
			t.Error("expected current value to not need rotation")
		}
	})

	t.Run("should fail legacy decrypt without legacy key", func(t *testing.T) {
		c, err := NewEnvelopeCipher(testKey(t), "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := c.Decrypt(sealLegacy(t, "old")); !isDecryptError(err) {
			t.Errorf("expected decrypt failure, got %v", err)
		}
	})
}

func isDecryptError(err error) bool {
	if err == nil {
		return false
	}
	var pe *domainErr.PlaidError
	if errors.As(err, &pe) {
		return pe.Code == domainErr.ErrCodeTokenDecryptFailed
	}
	return strings.Contains(err.Error(), "decrypt")
}
