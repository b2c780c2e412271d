package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/ncdgo/block"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		data      dataFlags
		from, to  int
		blockSize int
		name      string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Compute and persist distance blocks",
		Long: `Compute the distance matrix of test items [from, to) against the train
set and persist it as .npy blocks in the configured store.

Blocks that already exist are skipped, so an interrupted record can be
resumed by running it again. With storage.claim_table set, several
machines can record the same range at once.

With --name the whole range is written as one named block instead,
replacing any block of that name. Score it with score --name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("block-size") {
				a.cfg.Block.Size = blockSize
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			train, test, err := a.loadData(ctx, &data)
			if err != nil {
				return err
			}
			if to <= 0 || to > test.Len() {
				to = test.Len()
			}
			part, err := test.Slice(from, to)
			if err != nil {
				return err
			}

			exp, err := a.experiment(ctx, true)
			if err != nil {
				return err
			}

			if name != "" {
				if from != 0 || to != test.Len() {
					return fmt.Errorf("record: --name requires the full test set")
				}
				if err := exp.RecordNamed(ctx, name, train, part); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "written %s\n", block.NamedKey(name))
				return nil
			}

			summary, err := exp.Record(ctx, train, part, from)
			if summary != nil {
				printSummary(cmd, summary)
			}
			return err
		},
	}

	data.register(cmd)
	cmd.Flags().IntVar(&from, "from", 0, "first test index to record")
	cmd.Flags().IntVar(&to, "to", 0, "end of the test range (0 records to the end)")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "test rows per block (overrides block.size)")
	cmd.Flags().StringVar(&name, "name", "", "write a single named block instead of range blocks")
	return cmd
}

func printSummary(cmd *cobra.Command, s *block.Summary) {
	w := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(w, "written %d", len(s.Written))
	fmt.Fprint(w, ", ")
	color.New(color.FgCyan).Fprintf(w, "skipped %d", len(s.Skipped))
	fmt.Fprint(w, ", ")
	color.New(color.FgYellow).Fprintf(w, "claimed %d", len(s.Claimed))
	fmt.Fprint(w, ", ")
	color.New(color.FgRed).Fprintf(w, "failed %d", len(s.Failed))
	fmt.Fprintln(w)

	for _, key := range s.Failed {
		fmt.Fprintf(w, "  failed: %s\n", key)
	}
}
