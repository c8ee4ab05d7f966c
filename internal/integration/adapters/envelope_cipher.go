// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/isakbosman/manna/internal/application/adapter"
	domainErr "github.com/isakbosman/manna/internal/domain/error"
)

const (
	// envelopeVersionLegacy marks values sealed under the pbkdf2-derived key
	// without an embedded timestamp. Still readable, rotated on write.
	envelopeVersionLegacy byte = 0x01

	// envelopeVersionCurrent marks values sealed under the configured key
	// with a big-endian unix timestamp prepended to the plaintext.
	envelopeVersionCurrent byte = 0x02

	nonceSize       = 12
	timestampSize   = 8
	legacyIterCount = 100_000
)

// envelopeCipher implements adapter.SecretCipher using AES-256-GCM with a
// version byte that selects the key and plaintext framing. The version byte
// is fed to GCM as additional data, so a ciphertext cannot be replayed under
// a different version.
type envelopeCipher struct {
	key       []byte // current, 32 bytes
	legacyKey []byte // nil when no legacy material is configured
}

// NewEnvelopeCipher creates a SecretCipher from a base64-encoded 256-bit key.
// legacySecret and legacySalt are optional; when present, values written
// under the old scheme remain decryptable.
func NewEnvelopeCipher(keyBase64, legacySecret, legacySalt string) (adapter.SecretCipher, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	c := &envelopeCipher{key: key}
	if legacySecret != "" {
		c.legacyKey = pbkdf2.Key([]byte(legacySecret), []byte(legacySalt), legacyIterCount, 32, sha256.New)
	}
	return c, nil
}

// Encrypt seals the plaintext under the current envelope version.
// Layout: version(1) || nonce(12) || GCM(timestamp(8) || plaintext).
func (c *envelopeCipher) Encrypt(plaintext string) (string, error) {
	gcm, err := newGCM(c.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	framed := make([]byte, timestampSize+len(plaintext))
	binary.BigEndian.PutUint64(framed, uint64(time.Now().Unix()))
	copy(framed[timestampSize:], plaintext)

	sealed := gcm.Seal(nil, nonce, framed, []byte{envelopeVersionCurrent})

	out := make([]byte, 0, 1+nonceSize+len(sealed))
	out = append(out, envelopeVersionCurrent)
	out = append(out, nonce...)
	out = append(out, sealed...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a value produced by any supported envelope version.
func (c *envelopeCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", decryptError(err)
	}
	if len(raw) < 1+nonceSize {
		return "", decryptError(errors.New("ciphertext too short"))
	}

	version := raw[0]
	nonce := raw[1 : 1+nonceSize]
	sealed := raw[1+nonceSize:]

	switch version {
	case envelopeVersionCurrent:
		gcm, err := newGCM(c.key)
		if err != nil {
			return "", err
		}
		framed, err := gcm.Open(nil, nonce, sealed, []byte{version})
		if err != nil {
			return "", decryptError(err)
		}
		if len(framed) < timestampSize {
			return "", decryptError(errors.New("payload too short"))
		}
		return string(framed[timestampSize:]), nil

	case envelopeVersionLegacy:
		if c.legacyKey == nil {
			return "", decryptError(errors.New("no legacy key configured"))
		}
		gcm, err := newGCM(c.legacyKey)
		if err != nil {
			return "", err
		}
		plaintext, err := gcm.Open(nil, nonce, sealed, []byte{version})
		if err != nil {
			return "", decryptError(err)
		}
		return string(plaintext), nil

	default:
		return "", decryptError(fmt.Errorf("unknown envelope version %#x", version))
	}
}

// NeedsRotation reports whether the value was sealed under an older version.
func (c *envelopeCipher) NeedsRotation(ciphertext string) bool {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(raw) == 0 {
		return false
	}
	return raw[0] != envelopeVersionCurrent
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return gcm, nil
}

func decryptError(err error) error {
	return domainErr.NewPlaidError(
		domainErr.ErrCodeTokenDecryptFailed,
		domainErr.ErrTokenDecryptFailed.Error(),
		err,
	)
}
