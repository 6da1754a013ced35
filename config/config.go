// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config holds the gistkv command-line configuration: defaults,
// a key = value file format and validation.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage backends accepted by the CLI.
const (
	BackendGitHub = "github"
	BackendBolt   = "bolt"
)

// DefaultFilename is the gist file used when neither the config nor the
// environment (GIST_FILENAME) names one.
const DefaultFilename = "state.json"

// Config is the persisted CLI configuration. Credentials (token, key) are
// never written to the file; they come from flags or the environment.
type Config struct {
	DataDir  string
	GistID   string
	Filename string
	Backend  string
	BoltPath string
	Cipher   string
	Compress bool
	LogLevel string
}

// DefaultDataDir returns ~/.gistkv, or .gistkv in the working directory
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gistkv"
	}
	return filepath.Join(home, ".gistkv")
}

// DefaultConfig returns the configuration used when no file exists.
// Filename and Cipher stay empty so GIST_FILENAME and GIST_CIPHER still
// apply; an empty cipher selects Fernet.
func DefaultConfig() Config {
	dataDir := DefaultDataDir()
	return Config{
		DataDir:  dataDir,
		Backend:  BackendGitHub,
		BoltPath: filepath.Join(dataDir, "gists.db"),
		LogLevel: "info",
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a key = value file on top of DefaultConfig. Blank lines
// and lines starting with '#' are skipped; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# gistkv configuration\n")
	b.WriteString("# Credentials are read from GITHUB_TOKEN and GIST_ENCRYPTION_KEY.\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "gist = %s\n", cfg.GistID)
	fmt.Fprintf(&b, "file = %s\n", cfg.Filename)
	fmt.Fprintf(&b, "backend = %s\n", cfg.Backend)
	fmt.Fprintf(&b, "boltpath = %s\n", cfg.BoltPath)
	fmt.Fprintf(&b, "cipher = %s\n", cfg.Cipher)
	fmt.Fprintf(&b, "compress = %t\n", cfg.Compress)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "gist":
		c.GistID = value
	case "file":
		c.Filename = value
	case "backend":
		c.Backend = value
	case "boltpath":
		c.BoltPath = value
	case "cipher":
		c.Cipher = value
	case "compress":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("compress: %w", err)
		}
		c.Compress = b
	case "loglevel":
		c.LogLevel = value
	}
	return nil
}

// parseKeyValue splits on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}
