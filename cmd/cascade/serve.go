package main

import (
	"context"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Loads the scenario into one engine and exposes its entities, rules, graph and metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		scenarioPath, _ := cmd.Flags().GetString("scenario")
		logLevel, _ := cmd.Flags().GetString("log-level")
		maxTransitions, _ := cmd.Flags().GetInt("max-transitions")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cli.ServeOptions{
			Addr:           addr,
			ScenarioPath:   scenarioPath,
			LogLevel:       logLevel,
			MaxTransitions: maxTransitions,
			Stdout:         cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
