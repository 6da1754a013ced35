// Package envelope seals text content for storage in a gist file.
//
// A sealed value is a single self-contained token string. Two schemes are
// supported:
//
//	fernet  Fernet tokens (AES-128-CBC + HMAC-SHA256), readable by any
//	        Fernet implementation
//	aesgcm  base64url(0x01 || nonce(12B) || AES-256-GCM(plaintext) || tag(16B)),
//	        sealed under HKDF-SHA256(key, "gistkv-content")
//
// Both take the same 32-byte key. WithCompression wraps either scheme to
// zstd-compress larger plaintexts before sealing.
package envelope

import "fmt"

// Scheme names accepted by New.
const (
	SchemeFernet = "fernet"
	SchemeAESGCM = "aesgcm"
)

// Cipher seals and opens text tokens under a fixed key.
type Cipher interface {
	// Encrypt seals plaintext into a token.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens a token. It returns ErrDecryption if the token is
	// malformed, tampered, or sealed under a different key.
	Decrypt(token string) (string, error)
}

// New builds the Cipher for scheme keyed with a raw 32-byte key.
// An empty scheme selects Fernet.
func New(scheme string, key []byte) (Cipher, error) {
	switch scheme {
	case "", SchemeFernet:
		return NewFernet(key)
	case SchemeAESGCM:
		return NewGCM(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// ValidScheme reports whether New accepts scheme.
func ValidScheme(scheme string) bool {
	switch scheme {
	case "", SchemeFernet, SchemeAESGCM:
		return true
	}
	return false
}

func checkKeyLen(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(key))
	}
	return nil
}
