package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bitfsorg/gistkv-go/store"
	"github.com/spf13/cobra"
)

var (
	errPushTimeout  = errors.New("push timed out, remote state unknown")
	errUpdateFailed = errors.New("update failed")
	errNotObject    = errors.New("input is not a JSON object")
)

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func readObject(cmd *cobra.Command, args []string) (map[string]any, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := store.DecodeJSON(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotObject, err)
	}
	if obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := store.EncodeJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
