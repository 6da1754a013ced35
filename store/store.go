// Package store uses a single file inside a GitHub gist as a small
// persistent key-value store, optionally encrypted at rest.
//
// Basic usage:
//
//	s, err := store.New(store.Config{GistID: "aa5a315d61ae9438b18d", Filename: "state.json"})
//	if err != nil { ... }
//
//	data, err := s.FetchJSON(ctx)
//	if errors.Is(err, store.ErrNotFound) {
//	    data = map[string]any{}
//	}
//
//	ok := s.UpdateJSON(ctx, map[string]any{"cursor": 42})
//
// The token and key fall back to GITHUB_TOKEN and GIST_ENCRYPTION_KEY.
//
// UpdateJSON is a read-modify-write with no locking or version check against
// the gist: a writer that pushes between its read and its write loses that
// push. Use one writer per file.
package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/bitfsorg/gistkv-go/envelope"
	"github.com/bitfsorg/gistkv-go/host"
	"github.com/rs/zerolog"
)

// Store manages one file in one gist.
type Store struct {
	host     host.Host
	gistID   string
	filename string
	cipher   envelope.Cipher
	codec    codec
	log      zerolog.Logger
}

// New resolves cfg against the environment and creates a Store. It performs
// no network I/O.
//
// New returns ErrConfiguration if the gist ID or filename is empty, if no
// token resolves and no Host was supplied, or if an encryption key resolves
// (and encryption is not disabled) but does not decode to 32 bytes.
func New(cfg Config, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	env := o.Env
	if env == nil {
		env = Environ()
	}
	resolved, err := ResolveConfig(&cfg, env)
	if err != nil {
		return nil, err
	}

	if resolved.GistID == "" {
		return nil, fmt.Errorf("%w: gist ID is required (set %s)", ErrConfiguration, EnvGistID)
	}
	if resolved.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required (set %s)", ErrConfiguration, EnvFilename)
	}
	if !envelope.ValidScheme(resolved.Cipher) {
		return nil, fmt.Errorf("%w: unknown cipher %q", ErrConfiguration, resolved.Cipher)
	}

	c, err := newCipher(resolved)
	if err != nil {
		return nil, err
	}

	h := o.Host
	if h == nil {
		if resolved.Token == "" {
			return nil, fmt.Errorf("%w: no GitHub token (set %s)", ErrConfiguration, EnvToken)
		}
		h, err = host.NewGistHost(host.GistConfig{
			Token:      resolved.Token,
			BaseURL:    resolved.BaseURL,
			HTTPClient: o.HTTPClient,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	return &Store{
		host:     h,
		gistID:   resolved.GistID,
		filename: resolved.Filename,
		cipher:   c,
		codec:    codec{decode: o.Decoder, encode: o.Encoder},
		log: o.Logger.With().
			Str("gist", resolved.GistID).
			Str("file", resolved.Filename).
			Bool("encrypted", c != nil).
			Logger(),
	}, nil
}

// newCipher returns nil when the store runs in plaintext mode.
func newCipher(cfg Config) (envelope.Cipher, error) {
	if cfg.DisableEncryption || cfg.EncryptionKey == "" {
		return nil, nil
	}
	key, err := envelope.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	c, err := envelope.New(cfg.Cipher, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if cfg.Compress {
		if c, err = envelope.WithCompression(c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}
	return c, nil
}

// GistID returns the identifier of the managed gist.
func (s *Store) GistID() string { return s.gistID }

// Filename returns the name of the managed file.
func (s *Store) Filename() string { return s.filename }

// Encrypted reports whether content is encrypted at rest.
func (s *Store) Encrypted() bool { return s.cipher != nil }

// FetchContent returns the current text of the file, decrypted when
// encryption is active.
//
// It returns ErrNotFound if the file does not exist and ErrDecryption if the
// stored token cannot be opened with the configured key.
func (s *Store) FetchContent(ctx context.Context) (string, error) {
	s.log.Info().Msg("retrieving content from gist")

	content, err := s.host.ReadFile(ctx, s.gistID, s.filename)
	if err != nil {
		if errors.Is(err, host.ErrFileNotFound) {
			s.log.Warn().Err(err).Msg("file not found in gist")
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return "", fmt.Errorf("store: read %s: %w", s.filename, err)
	}

	if s.cipher == nil {
		return content, nil
	}
	plaintext, err := s.cipher.Decrypt(content)
	if err != nil {
		s.log.Warn().Err(err).Msg("cannot decrypt gist content")
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	return plaintext, nil
}

// PushContent overwrites the file with text, encrypting it first when
// encryption is active.
//
// A transport timeout is not an error: PushContent logs it and returns
// false, and the remote state is unknown. Every other failure is returned.
func (s *Store) PushContent(ctx context.Context, text string) (bool, error) {
	s.log.Info().Msg("pushing content to gist")

	payload := text
	if s.cipher != nil {
		var err error
		if payload, err = s.cipher.Encrypt(text); err != nil {
			return false, fmt.Errorf("store: encrypt content: %w", err)
		}
	}

	if err := s.host.WriteFile(ctx, s.gistID, s.filename, payload); err != nil {
		if host.IsTimeout(err) {
			s.log.Warn().Err(err).Msg("couldn't update gist")
			return false, nil
		}
		return false, fmt.Errorf("store: write %s: %w", s.filename, err)
	}
	return true, nil
}

// FetchJSON returns the file content decoded as a JSON object.
//
// It returns ErrInvalidFormat if the content is not a JSON object, which is
// also what a plaintext store sees when reading an encrypted file. Errors
// from FetchContent are passed through.
func (s *Store) FetchJSON(ctx context.Context, opts ...JSONOption) (map[string]any, error) {
	c := s.codecFor(opts)

	content, err := s.FetchContent(ctx)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := c.decode([]byte(content), &data); err != nil {
		s.log.Warn().Err(err).Msg("error decoding JSON from file")
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: content is not a JSON object", ErrInvalidFormat)
	}
	return data, nil
}

// PushJSON serializes data and writes it with PushContent, sharing its
// return contract. A nil map is written as an empty object.
func (s *Store) PushJSON(ctx context.Context, data map[string]any, opts ...JSONOption) (bool, error) {
	c := s.codecFor(opts)

	if data == nil {
		data = map[string]any{}
	}
	text, err := c.encode(data)
	if err != nil {
		return false, fmt.Errorf("store: encode JSON: %w", err)
	}
	return s.PushContent(ctx, string(text))
}

// UpdateJSON merges partial into the stored object and writes the result.
// Keys in partial replace or extend the stored keys; other keys are kept.
// If the stored object already equals partial, nothing is written.
//
// UpdateJSON reports only success. A missing file, a decryption failure, a
// network error and a push timeout all yield false and are logged; use
// FetchJSON and PushJSON to tell them apart.
//
// The read and the write are not atomic. A concurrent writer's push that
// lands between them is overwritten.
func (s *Store) UpdateJSON(ctx context.Context, partial map[string]any, opts ...JSONOption) bool {
	s.log.Info().Msg("updating JSON data in gist")

	existing, err := s.FetchJSON(ctx, opts...)
	if err != nil {
		s.log.Warn().Err(err).Msg("error updating JSON data")
		return false
	}

	update, err := s.normalize(partial, s.codecFor(opts))
	if err != nil {
		s.log.Warn().Err(err).Msg("error updating JSON data")
		return false
	}

	if reflect.DeepEqual(existing, update) {
		s.log.Info().Msg("no update needed as the data is identical")
		return true
	}

	maps.Copy(existing, update)
	ok, err := s.PushJSON(ctx, existing, opts...)
	if err != nil {
		s.log.Warn().Err(err).Msg("error updating JSON data")
		return false
	}
	return ok
}

// PopContent returns the file content, decrypted when encryption is active,
// and then deletes the file from the gist. A file that cannot be decrypted
// is left in place.
func (s *Store) PopContent(ctx context.Context) (string, error) {
	content, err := s.FetchContent(ctx)
	if err != nil {
		return "", err
	}

	s.log.Info().Msg("deleting file from gist")
	if err := s.host.DeleteFile(ctx, s.gistID, s.filename); err != nil {
		if errors.Is(err, host.ErrFileNotFound) {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return "", fmt.Errorf("store: delete %s: %w", s.filename, err)
	}
	return content, nil
}

func (s *Store) codecFor(opts []JSONOption) codec {
	c := s.codec
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// normalize round-trips partial through the codec so it compares equal to
// decoded content (an int 1 and a decoded json.Number "1" are the same value).
func (s *Store) normalize(partial map[string]any, c codec) (map[string]any, error) {
	if partial == nil {
		partial = map[string]any{}
	}
	text, err := c.encode(partial)
	if err != nil {
		return nil, fmt.Errorf("store: encode JSON: %w", err)
	}
	var out map[string]any
	if err := c.decode(text, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return out, nil
}
