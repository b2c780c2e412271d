// Package cli implements the ncdgo command line interface.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Execute runs the root command with the process arguments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut}
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintf(errOut, "error: %v\n", err)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ncdgo",
		Short: "Text classification by compression distance",
		Long: `ncdgo classifies text with k nearest neighbours over compression-based
distances (NCD, CLM, CDM).

Distance matrices can be computed in memory (run) or persisted as .npy
blocks (record) and scored later (score). Persisted runs resume where
they stopped and can be shared by several machines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVarP(&a.flags.configPath, "config", "c", "", "config file (default ./ncdgo.toml if present)")
	f.StringVar(&a.flags.compressor, "compressor", "", "compressor name (see 'ncdgo compressors')")
	f.StringVar(&a.flags.aggregation, "aggregation", "", "pair aggregation (concat-space, jag-word, jag-char)")
	f.StringVar(&a.flags.metric, "metric", "", "distance metric (NCD, CLM, CDM)")
	f.IntVarP(&a.flags.workers, "workers", "w", 0, "matrix rows computed concurrently")
	f.StringVar(&a.flags.tieBreak, "tie-break", "", "tie break policy (closest, random)")
	f.Int64Var(&a.flags.seed, "seed", 0, "seed for random tie breaks and sampling")
	f.StringVar(&a.flags.storageDir, "storage-dir", "", "directory of the local block store")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&a.flags.logFormat, "log-format", "", "log format (text, json)")
	f.StringVar(&a.flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newRecordCmd(a))
	rootCmd.AddCommand(newScoreCmd(a))
	rootCmd.AddCommand(newCompressorsCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}
