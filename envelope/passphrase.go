package envelope

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for passphrase-derived keys.
const (
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4

	// MinSaltLen is the shortest salt DeriveKey accepts.
	MinSaltLen = 8
)

// DeriveKey turns a passphrase into a key in the form ParseKey accepts,
// using Argon2id. The result is deterministic for a given passphrase and
// salt, so every machine that knows both arrives at the same key. Use a
// value unique to the store, such as the gist ID, as the salt.
func DeriveKey(passphrase, salt string) (string, error) {
	if passphrase == "" {
		return "", fmt.Errorf("%w: passphrase is empty", ErrInvalidKey)
	}
	if len(salt) < MinSaltLen {
		return "", fmt.Errorf("%w: salt must be at least %d bytes", ErrInvalidKey, MinSaltLen)
	}
	key := argon2.IDKey([]byte(passphrase), []byte(salt), Argon2Time, Argon2Memory, Argon2Parallelism, KeySize)
	return base64.URLEncoding.EncodeToString(key), nil
}
