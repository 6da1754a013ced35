package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// HKDFInfo is the info string used to derive the AES-256 content key.
	HKDFInfo = "gistkv-content"

	gcmVersion = 0x01

	// NonceLen is the length of the AES-GCM nonce in bytes.
	NonceLen = 12

	// GCMTagLen is the length of the GCM authentication tag in bytes.
	GCMTagLen = 16

	minSealedLen = 1 + NonceLen + GCMTagLen
)

// GCM is a Cipher using AES-256-GCM with a random nonce per token.
type GCM struct {
	aead cipher.AEAD
}

// NewGCM creates an AES-256-GCM cipher. The AES key is derived from key with
// HKDF-SHA256 so the same secret can be reused for Fernet without the two
// schemes sharing raw key material.
func NewGCM(key []byte) (*GCM, error) {
	if err := checkKeyLen(key); err != nil {
		return nil, err
	}
	aesKey, err := deriveContentKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("envelope: AES cipher creation failed: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("envelope: GCM creation failed: %w", err)
	}
	return &GCM{aead: aead}, nil
}

func deriveContentKey(secret []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(HKDFInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("envelope: HKDF key derivation failed: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext as base64url(version || nonce || ciphertext || tag).
func (g *GCM) Encrypt(plaintext string) (string, error) {
	sealed := make([]byte, 1+NonceLen, 1+NonceLen+len(plaintext)+GCMTagLen)
	sealed[0] = gcmVersion
	nonce := sealed[1:]
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: nonce generation: %w", ErrEncryption, err)
	}
	sealed = g.aead.Seal(sealed, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt.
func (g *GCM) Decrypt(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	if len(raw) < minSealedLen || raw[0] != gcmVersion {
		return "", fmt.Errorf("%w: malformed token", ErrDecryption)
	}
	nonce := raw[1 : 1+NonceLen]
	plaintext, err := g.aead.Open(nil, nonce, raw[1+NonceLen:], nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}
