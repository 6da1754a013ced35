package cmd

import (
	"fmt"

	"github.com/bitfsorg/gistkv-go/store"
	"github.com/spf13/cobra"
)

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat",
		Short: "Print the raw file content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s *store.Store) error {
				content, err := s.FetchContent(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			})
		},
	}
}

func newWriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write [file]",
		Short: "Overwrite the file with raw text",
		Long:  "Overwrite the gist file with text read from file, or stdin. The text need not be JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return a.withStore(func(s *store.Store) error {
				ok, err := s.PushContent(cmd.Context(), string(text))
				if err != nil {
					return err
				}
				if !ok {
					return errPushTimeout
				}
				return nil
			})
		},
	}
}

func newPopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pop",
		Short: "Print the file content and delete the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(s *store.Store) error {
				content, err := s.PopContent(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			})
		},
	}
}
