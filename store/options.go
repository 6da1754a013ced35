package store

import (
	"net/http"

	"github.com/bitfsorg/gistkv-go/host"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures New.
type Options struct {
	Host       host.Host
	Logger     zerolog.Logger
	Env        map[string]string
	HTTPClient *http.Client
	Decoder    Decoder
	Encoder    Encoder
}

// Option is a functional option for configuring New.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Logger:  log.Logger,
		Decoder: DecodeJSON,
		Encoder: EncodeJSON,
	}
}

// WithHost sets the blob host. Without it New connects to GitHub, which
// requires a token.
func WithHost(h host.Host) Option {
	return func(o *Options) { o.Host = h }
}

// WithLogger sets the logger. The default is zerolog's global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithEnv replaces the process environment during config resolution.
func WithEnv(env map[string]string) Option {
	return func(o *Options) { o.Env = env }
}

// WithHTTPClient sets the HTTP client used for the GitHub host.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

// WithDecoder sets the default JSON decoder for FetchJSON and UpdateJSON.
func WithDecoder(d Decoder) Option {
	return func(o *Options) {
		if d != nil {
			o.Decoder = d
		}
	}
}

// WithEncoder sets the default JSON encoder for PushJSON and UpdateJSON.
func WithEncoder(e Encoder) Option {
	return func(o *Options) {
		if e != nil {
			o.Encoder = e
		}
	}
}
