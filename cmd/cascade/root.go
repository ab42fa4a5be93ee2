package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Cascade propagates state changes through rule-linked workflow tasks",
	Long: `Cascade models a workflow as tasks whose state changes trigger rules.
A single change runs depth-first through every link and merge point it enables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "off", "Log level written to stderr (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().Int("max-transitions", 10000, "Cap on transitions per cascade (0 disables)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().StringP("scenario", "s", "", "Scenario YAML file (defaults to the built-in flight booking flow)")
}
