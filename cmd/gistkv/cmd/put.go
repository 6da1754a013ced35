package cmd

import (
	"github.com/bitfsorg/gistkv-go/store"
	"github.com/spf13/cobra"
)

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put [file]",
		Short: "Replace the stored JSON object",
		Long:  "Replace the stored object with the JSON object read from file, or stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runPut,
	}
}

func (a *app) runPut(cmd *cobra.Command, args []string) error {
	obj, err := readObject(cmd, args)
	if err != nil {
		return err
	}
	return a.withStore(func(s *store.Store) error {
		ok, err := s.PushJSON(cmd.Context(), obj)
		if err != nil {
			return err
		}
		if !ok {
			return errPushTimeout
		}
		return nil
	})
}
