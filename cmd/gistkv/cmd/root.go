// Package cmd implements the gistkv command line.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bitfsorg/gistkv-go/config"
	"github.com/bitfsorg/gistkv-go/host"
	"github.com/bitfsorg/gistkv-go/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	cfg        config.Config
	configPath string
	log        zerolog.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "gistkv",
		Short: "Key-value store in a GitHub gist",
		Long: "Read and write a JSON object kept in a single file of a GitHub gist,\n" +
			"optionally encrypted with a key from GIST_ENCRYPTION_KEY.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.String("config", "", "config file (default: ~/.gistkv/config)")
	f.String("gist", "", "gist ID")
	f.String("file", "", "file name inside the gist")
	f.String("token", "", "GitHub token (default: $GITHUB_TOKEN)")
	f.String("key", "", "encryption key (default: $GIST_ENCRYPTION_KEY)")
	f.Bool("no-encryption", false, "store plaintext even when a key is set")
	f.String("cipher", "", "envelope scheme: fernet or aesgcm")
	f.Bool("compress", false, "compress content before encryption")
	f.String("backend", "", "storage backend: github or bolt")
	f.String("bolt-path", "", "database file for the bolt backend")
	f.String("log-level", "", "debug, info, warn or error")

	for key, flag := range map[string]string{
		"config":        "config",
		"gist":          "gist",
		"file":          "file",
		"token":         "token",
		"key":           "key",
		"no_encryption": "no-encryption",
		"cipher":        "cipher",
		"compress":      "compress",
		"backend":       "backend",
		"bolt_path":     "bolt-path",
		"log_level":     "log-level",
	} {
		a.v.BindPFlag(key, f.Lookup(flag))
	}

	root.AddCommand(
		newGetCmd(a),
		newPutCmd(a),
		newUpdateCmd(a),
		newCatCmd(a),
		newWriteCmd(a),
		newPopCmd(a),
		newKeygenCmd(a),
		newInitCmd(a),
	)
	return root
}

// load resolves settings with decreasing priority: flags, GISTKV_* environment
// variables, the config file, built-in defaults.
func (a *app) load(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("GISTKV")
	a.v.AutomaticEnv()

	a.configPath = a.v.GetString("config")
	if a.configPath == "" {
		a.configPath = config.ConfigPath(config.DefaultDataDir())
	}
	file, err := config.LoadConfig(a.configPath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}

	a.v.SetDefault("data_dir", file.DataDir)
	a.v.SetDefault("gist", file.GistID)
	a.v.SetDefault("file", file.Filename)
	a.v.SetDefault("backend", file.Backend)
	a.v.SetDefault("bolt_path", file.BoltPath)
	a.v.SetDefault("cipher", file.Cipher)
	a.v.SetDefault("compress", file.Compress)
	a.v.SetDefault("log_level", file.LogLevel)

	a.cfg = config.Config{
		DataDir:  a.v.GetString("data_dir"),
		GistID:   a.v.GetString("gist"),
		Filename: a.v.GetString("file"),
		Backend:  a.v.GetString("backend"),
		BoltPath: a.v.GetString("bolt_path"),
		Cipher:   a.v.GetString("cipher"),
		Compress: a.v.GetBool("compress"),
		LogLevel: a.v.GetString("log_level"),
	}
	if err := config.ValidateConfig(a.cfg); err != nil {
		return err
	}

	a.log = newLogger(cmd.ErrOrStderr(), a.cfg.LogLevel)
	return nil
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(lvl).With().Timestamp().Logger()
}

// withStore opens the configured store, runs fn and releases the backend.
func (a *app) withStore(fn func(s *store.Store) error) (err error) {
	opts := []store.Option{store.WithLogger(a.log)}

	if a.cfg.Backend == config.BackendBolt {
		h, herr := host.OpenBoltHost(a.cfg.BoltPath)
		if herr != nil {
			return herr
		}
		defer func() {
			if cerr := h.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		opts = append(opts, store.WithHost(h))
	}

	// Resolve against the environment first so GIST_FILENAME and GIST_CIPHER
	// apply before the built-in file name.
	cfg, err := store.ResolveConfig(&store.Config{
		GistID:            a.cfg.GistID,
		Filename:          a.cfg.Filename,
		Token:             a.v.GetString("token"),
		EncryptionKey:     a.v.GetString("key"),
		DisableEncryption: a.v.GetBool("no_encryption"),
		Cipher:            a.cfg.Cipher,
		Compress:          a.cfg.Compress,
	}, store.Environ())
	if err != nil {
		return err
	}
	if cfg.Filename == "" {
		cfg.Filename = config.DefaultFilename
	}

	s, err := store.New(cfg, opts...)
	if err != nil {
		return err
	}
	return fn(s)
}
