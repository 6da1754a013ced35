package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Decoder parses JSON text into v, with the contract of json.Unmarshal.
type Decoder func(data []byte, v any) error

// Encoder serializes v into JSON text, with the contract of json.Marshal.
type Encoder func(v any) ([]byte, error)

// JSONOption overrides the store's codec for a single call.
type JSONOption func(*codec)

type codec struct {
	decode Decoder
	encode Encoder
}

// UsingDecoder decodes with d for this call only.
func UsingDecoder(d Decoder) JSONOption {
	return func(c *codec) {
		if d != nil {
			c.decode = d
		}
	}
}

// UsingEncoder encodes with e for this call only.
func UsingEncoder(e Encoder) JSONOption {
	return func(c *codec) {
		if e != nil {
			c.encode = e
		}
	}
}

// DecodeJSON is the default Decoder. Numbers decode as json.Number so large
// counters and IDs survive a read-modify-write unchanged. Trailing data after
// the first value is an error.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

// EncodeJSON is the default Encoder: four-space indentation and sorted keys,
// so identical data always produces identical file content.
func EncodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "    ")
}
