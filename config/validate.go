// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"strings"

	"github.com/bitfsorg/gistkv-go/envelope"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid. The gist
// ID is not checked here since the file may omit it.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	switch cfg.Backend {
	case BackendGitHub:
	case BackendBolt:
		if cfg.BoltPath == "" {
			return ErrEmptyBoltPath
		}
	default:
		return ErrInvalidBackend
	}

	if !envelope.ValidScheme(cfg.Cipher) {
		return ErrInvalidCipher
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
