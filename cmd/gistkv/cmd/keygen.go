package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bitfsorg/gistkv-go/envelope"
	"github.com/spf13/cobra"
)

func newKeygenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an encryption key",
		Long: "Print a new random key suitable for GIST_ENCRYPTION_KEY.\n\n" +
			"With --passphrase, read a passphrase from the first line of stdin and\n" +
			"derive the key from it with Argon2id, salted with the gist ID (or --salt).",
		Args: cobra.NoArgs,
		RunE: a.runKeygen,
	}
	cmd.Flags().Bool("passphrase", false, "derive the key from a passphrase read from stdin")
	cmd.Flags().String("salt", "", "salt for --passphrase (default: the gist ID)")
	return cmd
}

func (a *app) runKeygen(cmd *cobra.Command, _ []string) error {
	fromPassphrase, _ := cmd.Flags().GetBool("passphrase")
	if !fromPassphrase {
		key, err := envelope.GenerateKey()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
		return err
	}

	salt, _ := cmd.Flags().GetString("salt")
	if salt == "" {
		salt = a.cfg.GistID
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read passphrase: %w", err)
	}
	key, err := envelope.DeriveKey(strings.TrimRight(line, "\r\n"), salt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
	return err
}
