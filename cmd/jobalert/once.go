package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single scrape cycle and exit",
	RunE:  runOnce,
}

var onceDryRun bool

func init() {
	onceCmd.Flags().BoolVar(&onceDryRun, "dry-run", false, "Log messages instead of sending them")
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, onceDryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := a.runner.RunCycle(ctx)
	if err != nil {
		return fmt.Errorf("cycle failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d matched=%d new=%d sent=%d deferred=%d source_errors=%d\n",
		sum.Scanned, sum.Matched, sum.New, sum.Sent, sum.Deferred, sum.SourceErrors)
	return nil
}
