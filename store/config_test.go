package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigExplicitOverridesEnv(t *testing.T) {
	env := map[string]string{
		EnvToken:         "env-token",
		EnvEncryptionKey: "env-key",
		EnvGistID:        "env-gist",
		EnvFilename:      "env.json",
	}
	explicit := &Config{Token: "arg-token", EncryptionKey: "arg-key", GistID: "arg-gist", Filename: "arg.json"}

	cfg, err := ResolveConfig(explicit, env)
	require.NoError(t, err)
	assert.Equal(t, "arg-token", cfg.Token)
	assert.Equal(t, "arg-key", cfg.EncryptionKey)
	assert.Equal(t, "arg-gist", cfg.GistID)
	assert.Equal(t, "arg.json", cfg.Filename)
}

func TestResolveConfigEnvFallback(t *testing.T) {
	env := map[string]string{
		EnvToken:             "env-token",
		EnvEncryptionKey:     "env-key",
		EnvCipher:            "aesgcm",
		EnvCompress:          "true",
		EnvDisableEncryption: "0",
		EnvAPIURL:            "https://ghe.example.com/api/v3",
	}
	cfg, err := ResolveConfig(&Config{GistID: "g", Filename: "f"}, env)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "env-key", cfg.EncryptionKey)
	assert.Equal(t, "aesgcm", cfg.Cipher)
	assert.True(t, cfg.Compress)
	assert.False(t, cfg.DisableEncryption)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.BaseURL)
	assert.Equal(t, "g", cfg.GistID)
}

func TestResolveConfigAbsence(t *testing.T) {
	cfg, err := ResolveConfig(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestResolveConfigExplicitDisable(t *testing.T) {
	env := map[string]string{EnvEncryptionKey: "env-key"}
	cfg, err := ResolveConfig(&Config{DisableEncryption: true}, env)
	require.NoError(t, err)
	assert.True(t, cfg.DisableEncryption)
	assert.Equal(t, "env-key", cfg.EncryptionKey)
}

func TestResolveConfigFalseDoesNotOverrideEnv(t *testing.T) {
	env := map[string]string{EnvCompress: "true", EnvDisableEncryption: "1"}
	cfg, err := ResolveConfig(&Config{Compress: false, DisableEncryption: false}, env)
	require.NoError(t, err)
	assert.True(t, cfg.Compress)
	assert.True(t, cfg.DisableEncryption)

	cfg, err = ResolveConfig(&Config{}, map[string]string{})
	require.NoError(t, err)
	assert.False(t, cfg.Compress)
	assert.False(t, cfg.DisableEncryption)
}

func TestResolveConfigBadBoolean(t *testing.T) {
	_, err := ResolveConfig(nil, map[string]string{EnvCompress: "maybe"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), EnvCompress)
}

func TestEnviron(t *testing.T) {
	t.Setenv("GISTKV_TEST_VAR", "a=b")
	env := Environ()
	assert.Equal(t, "a=b", env["GISTKV_TEST_VAR"])
}
