package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/ncdgo/compressor"
)

func newCompressorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compressors",
		Short: "List the available compressors",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			green := color.New(color.FgGreen)
			for _, name := range compressor.Names() {
				if name == a.cfg.Compressor {
					green.Fprintf(w, "* %s\n", name)
					continue
				}
				fmt.Fprintf(w, "  %s\n", name)
			}
		},
	}
}
