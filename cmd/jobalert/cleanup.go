package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clear the seen job store now",
	Long:  "Delete every remembered job link so the next cycle can alert on them again.",
	RunE:  runCleanup,
}

var cleanupQuiet bool

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupQuiet, "quiet", false, "Do not post the cleanup report to the chat")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), cleanupQuiet)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.runner.Cleanup(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d jobs\n", n)
	return nil
}
