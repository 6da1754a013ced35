package envelope

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// KeySize is the length in bytes of a decoded content key.
const KeySize = 32

// ParseKey decodes a url-safe base64 key and checks that it is exactly
// KeySize bytes long. Both padded and unpadded encodings are accepted.
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	key, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(key))
	}
	return key, nil
}

// GenerateKey returns a fresh random key in the padded url-safe base64 form
// that ParseKey accepts and Fernet keys conventionally use.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("envelope: generate key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(key), nil
}
