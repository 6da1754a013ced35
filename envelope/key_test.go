package envelope

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	raw := make([]byte, KeySize)
	for i := range raw {
		raw[i] = byte(i)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"padded", base64.URLEncoding.EncodeToString(raw)},
		{"unpadded", base64.RawURLEncoding.EncodeToString(raw)},
		{"surrounding whitespace", "  " + base64.URLEncoding.EncodeToString(raw) + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, raw, key)
		})
	}
}

func TestParseKey_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", base64.URLEncoding.EncodeToString(make([]byte, 16))},
		{"too long", base64.URLEncoding.EncodeToString(make([]byte, 33))},
		{"not base64", "not a key!!"},
		{"raw 32 char passphrase", strings.Repeat("k", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKey(tt.input)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestGenerateKey(t *testing.T) {
	k1, err := GenerateKey()
	require.NoError(t, err)
	k2, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	raw, err := ParseKey(k1)
	require.NoError(t, err)
	assert.Len(t, raw, KeySize)
}
