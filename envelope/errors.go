package envelope

import "errors"

var (
	// ErrInvalidKey indicates the key is not base64url or does not decode to 32 bytes.
	ErrInvalidKey = errors.New("envelope: key must be 32 url-safe base64-encoded bytes")

	// ErrDecryption indicates a token is malformed, tampered, or was sealed under another key.
	ErrDecryption = errors.New("envelope: decryption failed")

	// ErrEncryption indicates sealing the plaintext failed (e.g. no entropy).
	ErrEncryption = errors.New("envelope: encryption failed")

	// ErrUnknownScheme indicates an unsupported cipher scheme name.
	ErrUnknownScheme = errors.New("envelope: unknown cipher scheme")

	// ErrDecompressedTooLarge indicates decompressed content exceeds the safety limit.
	ErrDecompressedTooLarge = errors.New("envelope: decompressed content exceeds maximum size")
)
