package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/ncdgo/block"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		data    dataFlags
		k       int
		partial bool
		name    string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Classify persisted distance blocks and report the accuracy",
		Long: `Read every persisted block of the configured compressor, classify its
rows with k nearest neighbours and print the accuracy over all blocks.

Missing or unreadable blocks fail the command unless --partial is set.
With --name only the named block written by record --name is scored.`,
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
			exp, err := a.experiment(ctx, true)
			if err != nil {
				return err
			}

			var score *block.Score
			if name != "" {
				score, err = exp.ScoreNamed(ctx, name, train.Labels, test.Labels, k)
			} else {
				score, err = exp.Score(ctx, train.Labels, test.Labels, k, partial)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s,%.6f\n", exp.Compressor(), score.Accuracy)
			color.New(color.FgGreen).Fprintf(w, "accuracy %.4f", score.Accuracy)
			fmt.Fprintf(w, " (%d/%d over %d blocks, k=%d)\n", score.Hits, score.Total, len(score.Blocks), k)

			warn := color.New(color.FgYellow)
			for _, key := range score.Missing {
				warn.Fprintf(w, "  missing: %s\n", key)
			}
			for _, key := range score.Skipped {
				warn.Fprintf(w, "  skipped: %s\n", key)
			}
			return nil
		},
	}

	data.register(cmd)
	cmd.Flags().IntVarP(&k, "k", "k", 2, "number of nearest neighbours (overrides k)")
	cmd.Flags().BoolVar(&partial, "partial", false, "score the blocks that exist and skip the rest")
	cmd.Flags().StringVar(&name, "name", "", "score a single named block")
	return cmd
}
