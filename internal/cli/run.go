package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		data dataFlags
		k    int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the test set in memory and report the accuracy",
		Long: `Compute the full test x train distance matrix in memory, predict every
test label from its k nearest train items and print one result line
"compressor,accuracy,seconds".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("k") {
				k = a.cfg.K
			}

			train, test, err := a.loadData(ctx, &data)
			if err != nil {
				return err
			}
			exp, err := a.experiment(ctx, false)
			if err != nil {
				return err
			}

			res, err := exp.Run(ctx, train, test, k)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, res.Record())
			color.New(color.FgGreen).Fprintf(w, "accuracy %.4f", res.Accuracy)
			fmt.Fprintf(w, " (%d/%d, k=%d, %s)\n", res.Report.Hits(), res.Report.Total(), k, res.Metric)
			return nil
		},
	}

	data.register(cmd)
	cmd.Flags().IntVarP(&k, "k", "k", 2, "number of nearest neighbours (overrides k)")
	return cmd
}
