package cmd

import (
	"fmt"

	"github.com/bitfsorg/gistkv-go/store"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print the stored JSON object",
		Long:  "Print the stored JSON object, or the value of a single top-level key.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runGet,
	}
}

func (a *app) runGet(cmd *cobra.Command, args []string) error {
	return a.withStore(func(s *store.Store) error {
		data, err := s.FetchJSON(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return printJSON(cmd.OutOrStdout(), data)
		}
		v, ok := data[args[0]]
		if !ok {
			return fmt.Errorf("key %q not found", args[0])
		}
		return printJSON(cmd.OutOrStdout(), v)
	})
}
