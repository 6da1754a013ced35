package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables consulted by ResolveConfig.
const (
	EnvToken             = "GITHUB_TOKEN"
	EnvEncryptionKey     = "GIST_ENCRYPTION_KEY"
	EnvGistID            = "GIST_ID"
	EnvFilename          = "GIST_FILENAME"
	EnvCipher            = "GIST_CIPHER"
	EnvCompress          = "GIST_COMPRESS"
	EnvDisableEncryption = "GIST_DISABLE_ENCRYPTION"
	EnvAPIURL            = "GITHUB_API_URL"
)

// Config identifies the managed gist file and carries its credentials.
type Config struct {
	GistID   string `json:"gist_id"`
	Filename string `json:"filename"`

	// Token authenticates against GitHub. It is only required when no
	// Host is supplied with WithHost.
	Token string `json:"token"`

	// EncryptionKey is a url-safe base64 encoding of 32 random bytes.
	// Empty leaves the file in plaintext.
	EncryptionKey string `json:"encryption_key"`

	// DisableEncryption forces plaintext mode even when a key resolves.
	// Like Compress, a false value means unset: it cannot override a true
	// value from the environment.
	DisableEncryption bool `json:"disable_encryption"`

	// Cipher selects the envelope scheme: "fernet" (default) or "aesgcm".
	Cipher string `json:"cipher"`

	// Compress zstd-compresses larger plaintexts inside the envelope.
	// It has no effect in plaintext mode.
	Compress bool `json:"compress"`

	// BaseURL overrides the GitHub API root (GitHub Enterprise).
	BaseURL string `json:"base_url"`
}

// ResolveConfig merges configuration from two sources with decreasing priority:
//  1. explicit values (highest priority)
//  2. environment variables (GITHUB_TOKEN, GIST_ENCRYPTION_KEY, GIST_ID, ...)
//
// Empty strings and false booleans in explicit count as unset, so an explicit
// Compress or DisableEncryption can switch the setting on but never off; use
// WithEnv to hide a true environment value. Anything still unset stays empty.
// Resolution happens once; the result is never re-read from the environment.
func ResolveConfig(explicit *Config, env map[string]string) (Config, error) {
	var result Config

	// Layer 1: environment variables.
	if env != nil {
		result.Token = env[EnvToken]
		result.EncryptionKey = env[EnvEncryptionKey]
		result.GistID = env[EnvGistID]
		result.Filename = env[EnvFilename]
		result.Cipher = env[EnvCipher]
		result.BaseURL = env[EnvAPIURL]

		for name, dst := range map[string]*bool{
			EnvCompress:          &result.Compress,
			EnvDisableEncryption: &result.DisableEncryption,
		} {
			v, ok := env[name]
			if !ok || v == "" {
				continue
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, fmt.Errorf("%w: %s=%q is not a boolean", ErrConfiguration, name, v)
			}
			*dst = b
		}
	}

	// Layer 2: explicit values have highest priority.
	if explicit != nil {
		if explicit.GistID != "" {
			result.GistID = explicit.GistID
		}
		if explicit.Filename != "" {
			result.Filename = explicit.Filename
		}
		if explicit.Token != "" {
			result.Token = explicit.Token
		}
		if explicit.EncryptionKey != "" {
			result.EncryptionKey = explicit.EncryptionKey
		}
		if explicit.Cipher != "" {
			result.Cipher = explicit.Cipher
		}
		if explicit.BaseURL != "" {
			result.BaseURL = explicit.BaseURL
		}
		if explicit.DisableEncryption {
			result.DisableEncryption = true
		}
		if explicit.Compress {
			result.Compress = true
		}
	}

	return result, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
