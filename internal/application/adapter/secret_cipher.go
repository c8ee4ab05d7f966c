// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// SecretCipher encrypts and decrypts secrets stored at rest, such as bank
// aggregator access tokens.
type SecretCipher interface {
	// Encrypt seals the plaintext under the current envelope version and
	// returns an opaque string safe to store in a text column.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens a value produced by any supported envelope version.
	Decrypt(ciphertext string) (string, error)

	// NeedsRotation reports whether the value was written under an older
	// envelope version and should be re-encrypted on next write.
	NeedsRotation(ciphertext string) bool
}
