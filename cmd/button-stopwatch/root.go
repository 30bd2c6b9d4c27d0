package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string
)

// rootCmd runs the daemon when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "button-stopwatch",
	Short: "Single-button stopwatch daemon",
	Long: `button-stopwatch watches a GPIO push button and runs a stopwatch:
tap to start or record a lap, hold 2s to pause or resume, hold 4s to reset.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (optional)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
