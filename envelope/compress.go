package envelope

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

const (
	// minCompressLen is the plaintext size below which compression is skipped.
	minCompressLen = 128

	// MaxDecompressedSize bounds the memory a single decompressed token may use.
	MaxDecompressedSize = 64 << 20
)

// zstdMagic starts every zstd frame. JSON and other text never begin with it,
// so compressed and uncompressed plaintexts can share one store.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type compressed struct {
	inner   Cipher
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// WithCompression wraps c so plaintexts of at least 128 bytes are zstd
// compressed before sealing, when that makes them smaller. Decrypt accepts
// both compressed and uncompressed payloads.
func WithCompression(c Cipher) (Cipher, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("envelope: create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxDecompressedSize),
	)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("envelope: create zstd decoder: %w", err)
	}
	return &compressed{inner: c, encoder: enc, decoder: dec}, nil
}

func (c *compressed) Encrypt(plaintext string) (string, error) {
	return c.inner.Encrypt(string(c.compress([]byte(plaintext))))
}

func (c *compressed) Decrypt(token string) (string, error) {
	payload, err := c.inner.Decrypt(token)
	if err != nil {
		return "", err
	}
	if !bytes.HasPrefix([]byte(payload), zstdMagic) {
		return payload, nil
	}
	out, err := c.decoder.DecodeAll([]byte(payload), nil)
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return "", fmt.Errorf("%w: %w", ErrDecryption, ErrDecompressedTooLarge)
		}
		return "", fmt.Errorf("%w: zstd: %w", ErrDecryption, err)
	}
	return string(out), nil
}

func (c *compressed) compress(data []byte) []byte {
	if len(data) < minCompressLen {
		return data
	}
	out := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(out) >= len(data) {
		return data
	}
	return out
}
