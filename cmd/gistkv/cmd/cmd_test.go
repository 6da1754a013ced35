package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitfsorg/gistkv-go/config"
	"github.com/bitfsorg/gistkv-go/envelope"
	"github.com/bitfsorg/gistkv-go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helper functions ---

// isolate points HOME at a temp dir and clears the variables the store reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, name := range []string{
		store.EnvToken, store.EnvEncryptionKey, store.EnvGistID, store.EnvFilename,
		store.EnvCipher, store.EnvCompress, store.EnvDisableEncryption, store.EnvAPIURL,
	} {
		t.Setenv(name, "")
	}
	return dir
}

func boltArgs(dir string, extra ...string) []string {
	args := []string{
		"--backend", "bolt",
		"--bolt-path", filepath.Join(dir, "gists.db"),
		"--gist", "38de70e57cbfc92e892cef1fe736ee52",
		"--file", "state.json",
		"--log-level", "error",
	}
	return append(args, extra...)
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// --- Command tests ---

func TestPutUpdateGet(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, `{"a": 1, "b": 2}`, boltArgs(dir, "put")...)
	require.NoError(t, err)

	_, err = run(t, `{"b": 3, "c": 4}`, boltArgs(dir, "update")...)
	require.NoError(t, err)

	out, err := run(t, "", boltArgs(dir, "get")...)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1,\n    \"b\": 3,\n    \"c\": 4\n}\n", out)

	out, err = run(t, "", boltArgs(dir, "get", "b")...)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = run(t, "", boltArgs(dir, "get", "missing")...)
	assert.Error(t, err)
}

func TestPutFromFile(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"cursor": "abc"}`), 0600))

	_, err := run(t, "", boltArgs(dir, "put", input)...)
	require.NoError(t, err)

	out, err := run(t, "", boltArgs(dir, "get", "cursor")...)
	require.NoError(t, err)
	assert.Equal(t, "\"abc\"\n", out)
}

func TestPutRejectsNonObject(t *testing.T) {
	dir := isolate(t)
	for _, in := range []string{`[1, 2]`, `null`, `not json`} {
		_, err := run(t, in, boltArgs(dir, "put")...)
		assert.ErrorIs(t, err, errNotObject, "input %q", in)
	}
}

func TestGetMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := run(t, "", boltArgs(dir, "get")...)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateMissingFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := run(t, `{"a": 1}`, boltArgs(dir, "update")...)
	assert.ErrorIs(t, err, errUpdateFailed)
}

func TestWriteCatPop(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, "free-form text\n", boltArgs(dir, "write")...)
	require.NoError(t, err)

	out, err := run(t, "", boltArgs(dir, "cat")...)
	require.NoError(t, err)
	assert.Equal(t, "free-form text\n", out)

	out, err = run(t, "", boltArgs(dir, "pop")...)
	require.NoError(t, err)
	assert.Equal(t, "free-form text\n", out)

	_, err = run(t, "", boltArgs(dir, "cat")...)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEncryptedRoundTrip(t *testing.T) {
	dir := isolate(t)

	key, err := run(t, "", "keygen")
	require.NoError(t, err)
	key = strings.TrimSpace(key)
	_, err = envelope.ParseKey(key)
	require.NoError(t, err)

	_, err = run(t, `{"secret": "value"}`, boltArgs(dir, "--key", key, "put")...)
	require.NoError(t, err)

	out, err := run(t, "", boltArgs(dir, "--key", key, "get", "secret")...)
	require.NoError(t, err)
	assert.Equal(t, "\"value\"\n", out)

	raw, err := run(t, "", boltArgs(dir, "--key", key, "--no-encryption", "cat")...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "gAAAAA"))
	assert.NotContains(t, raw, "secret")

	_, err = run(t, "", boltArgs(dir, "get")...)
	assert.ErrorIs(t, err, store.ErrInvalidFormat)
}

func TestKeyFromEnvironment(t *testing.T) {
	dir := isolate(t)
	key, err := envelope.GenerateKey()
	require.NoError(t, err)
	t.Setenv(store.EnvEncryptionKey, key)

	_, err = run(t, `{"n": 1}`, boltArgs(dir, "--cipher", "aesgcm", "--compress", "put")...)
	require.NoError(t, err)

	raw, err := run(t, "", boltArgs(dir, "--no-encryption", "cat")...)
	require.NoError(t, err)
	assert.NotContains(t, raw, `"n"`)

	out, err := run(t, "", boltArgs(dir, "--cipher", "aesgcm", "--compress", "get", "n")...)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestInitWritesConfig(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "gistkv.conf")

	out, err := run(t, "", boltArgs(dir, "--config", cfgPath, "init")...)
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)

	saved, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.BackendBolt, saved.Backend)
	assert.Equal(t, "state.json", saved.Filename)
	assert.Equal(t, "38de70e57cbfc92e892cef1fe736ee52", saved.GistID)

	// Settings come from the file when no flags are given.
	_, err = run(t, `{"from": "file"}`, "--config", cfgPath, "put")
	require.NoError(t, err)

	out, err = run(t, "", boltArgs(dir, "get", "from")...)
	require.NoError(t, err)
	assert.Equal(t, "\"file\"\n", out)
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "gistkv.conf")
	_, err := run(t, "", boltArgs(dir, "--config", cfgPath, "init")...)
	require.NoError(t, err)

	t.Setenv("GISTKV_FILE", "other.json")
	_, err = run(t, `{"k": true}`, "--config", cfgPath, "put")
	require.NoError(t, err)

	_, err = run(t, "", boltArgs(dir, "get")...)
	assert.ErrorIs(t, err, store.ErrNotFound)

	out, err := run(t, "", boltArgs(dir, "--file", "other.json", "get", "k")...)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestStoreEnvironmentFilenameAndCipher(t *testing.T) {
	dir := isolate(t)
	key, err := envelope.GenerateKey()
	require.NoError(t, err)
	t.Setenv(store.EnvFilename, "env.json")
	t.Setenv(store.EnvCipher, envelope.SchemeAESGCM)

	noFile := []string{
		"--backend", "bolt",
		"--bolt-path", filepath.Join(dir, "gists.db"),
		"--gist", "38de70e57cbfc92e892cef1fe736ee52",
		"--log-level", "error",
	}
	_, err = run(t, `{"k": "v"}`, append(noFile, "--key", key, "put")...)
	require.NoError(t, err)

	// Nothing was written to the built-in file name.
	_, err = run(t, "", boltArgs(dir, "cat")...)
	assert.ErrorIs(t, err, store.ErrNotFound)

	raw, err := run(t, "", boltArgs(dir, "--file", "env.json", "--no-encryption", "cat")...)
	require.NoError(t, err)
	assert.NotContains(t, raw, `"k"`)
	assert.False(t, strings.HasPrefix(raw, "gAAAAA"), "expected an AES-GCM token, got Fernet")

	out, err := run(t, "", append(noFile, "--key", key, "get", "k")...)
	require.NoError(t, err)
	assert.Equal(t, "\"v\"\n", out)
}

func TestDefaultFilenameWithoutEnvironment(t *testing.T) {
	dir := isolate(t)
	noFile := []string{
		"--backend", "bolt",
		"--bolt-path", filepath.Join(dir, "gists.db"),
		"--gist", "38de70e57cbfc92e892cef1fe736ee52",
		"--log-level", "error",
	}
	_, err := run(t, "plain\n", append(noFile, "write")...)
	require.NoError(t, err)

	out, err := run(t, "", boltArgs(dir, "cat")...)
	require.NoError(t, err)
	assert.Equal(t, "plain\n", out)
}

func TestInvalidSettings(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, "", boltArgs(dir, "--backend", "s3", "get")...)
	assert.ErrorIs(t, err, config.ErrInvalidBackend)

	_, err = run(t, "", boltArgs(dir, "--cipher", "rot13", "get")...)
	assert.ErrorIs(t, err, config.ErrInvalidCipher)

	_, err = run(t, "", boltArgs(dir, "--key", "short", "get")...)
	assert.ErrorIs(t, err, store.ErrConfiguration)
}

func TestGitHubBackendRequiresToken(t *testing.T) {
	isolate(t)
	_, err := run(t, "", "--gist", "abc", "--log-level", "error", "get")
	assert.ErrorIs(t, err, store.ErrConfiguration)
}

func TestKeygenFromPassphrase(t *testing.T) {
	dir := isolate(t)

	k1, err := run(t, "hunter2 hunter2\n", "--gist", "38de70e57cbfc92e892cef1fe736ee52", "keygen", "--passphrase")
	require.NoError(t, err)
	k2, err := run(t, "hunter2 hunter2", "--gist", "38de70e57cbfc92e892cef1fe736ee52", "keygen", "--passphrase")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	want, err := envelope.DeriveKey("hunter2 hunter2", "38de70e57cbfc92e892cef1fe736ee52")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", k1)

	// The derived key opens what it sealed.
	key := strings.TrimSpace(k1)
	_, err = run(t, `{"a": 1}`, boltArgs(dir, "--key", key, "put")...)
	require.NoError(t, err)
	out, err := run(t, "", boltArgs(dir, "--key", key, "get", "a")...)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	_, err = run(t, "", "keygen", "--passphrase", "--salt", "long-enough-salt")
	assert.ErrorIs(t, err, envelope.ErrInvalidKey)
}
