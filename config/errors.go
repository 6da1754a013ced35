// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidBackend indicates the backend name is not recognized.
	ErrInvalidBackend = errors.New("config: invalid backend (must be \"github\" or \"bolt\")")

	// ErrEmptyBoltPath indicates the bolt backend was selected without a database path.
	ErrEmptyBoltPath = errors.New("config: bolt backend requires a database path")

	// ErrInvalidCipher indicates the cipher scheme is not recognized.
	ErrInvalidCipher = errors.New("config: invalid cipher (must be \"fernet\" or \"aesgcm\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
