package cmd

import (
	"fmt"

	"github.com/bitfsorg/gistkv-go/config"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the config file",
		Long:  "Write the resolved settings (never the token or key) to the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.SaveConfig(a.configPath, a.cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
			return err
		},
	}
}
