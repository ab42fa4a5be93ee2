package main

import (
	"fmt"

	"github.com/aretw0/cascade"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cascade",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cascade version %s\n", cascade.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
