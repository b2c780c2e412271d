package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying the config file and flags.
With --write the configuration is saved to a file instead.

Without a config file, k defaults to 2 neighbours and ties are broken
by the closest neighbour.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if write != "" {
				if err := a.cfg.Save(write); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", write)
				return nil
			}
			return a.cfg.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&write, "write", "", "save the configuration to this file")
	return cmd
}
