package envelope

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// noExpiry disables the token timestamp check; stored state never expires.
const noExpiry = -1

// Fernet is a Cipher producing Fernet tokens.
type Fernet struct {
	key *fernet.Key
}

// NewFernet creates a Fernet cipher from a raw 32-byte key.
func NewFernet(key []byte) (*Fernet, error) {
	if err := checkKeyLen(key); err != nil {
		return nil, err
	}
	var k fernet.Key
	copy(k[:], key)
	return &Fernet{key: &k}, nil
}

// Encrypt seals plaintext into a Fernet token.
func (f *Fernet) Encrypt(plaintext string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(plaintext), f.key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryption, err)
	}
	return string(tok), nil
}

// Decrypt verifies and opens a Fernet token.
func (f *Fernet) Decrypt(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), noExpiry, []*fernet.Key{f.key})
	if msg == nil {
		return "", ErrDecryption
	}
	return string(msg), nil
}
