// Command jobalert scrapes job boards on a schedule and sends new
// postings to a Telegram chat.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobalert/internal/config"
)

var version = "dev"

var (
	flagDataDir string
	flagConfig  string
	flagEnvFile string
)

var rootCmd = &cobra.Command{
	Use:           "jobalert",
	Short:         "Job posting alerts for Telegram",
	Long:          "jobalert searches LinkedIn and Naukri for configured keywords, drops postings it has already sent, and delivers the rest to a Telegram chat.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "jobalert", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDataDir, "data-dir", "", "Data directory (default $"+config.EnvDataDir+" or .)")
	pf.StringVarP(&flagConfig, "config", "c", "", "Config file (default <data-dir>/config.yml)")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before the config")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
