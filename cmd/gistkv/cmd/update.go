package cmd

import (
	"github.com/bitfsorg/gistkv-go/store"
	"github.com/spf13/cobra"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update [file]",
		Short: "Merge keys into the stored JSON object",
		Long: "Merge the top-level keys of the JSON object read from file, or stdin,\n" +
			"into the stored object. The file must already exist.",
		Args: cobra.MaximumNArgs(1),
		RunE: a.runUpdate,
	}
}

func (a *app) runUpdate(cmd *cobra.Command, args []string) error {
	obj, err := readObject(cmd, args)
	if err != nil {
		return err
	}
	return a.withStore(func(s *store.Store) error {
		if !s.UpdateJSON(cmd.Context(), obj) {
			return errUpdateFailed
		}
		return nil
	})
}
