package main

import (
	"context"
	"os"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a scenario and narrate every cascade",
	Long: `Runs the scripted steps of a scenario against a fresh engine, printing each state change
as the cascade reaches it. Without --scenario the built-in flight booking flow is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		scenarioPath, _ := flags.GetString("scenario")
		user, _ := flags.GetString("user")
		payment, _ := flags.GetString("payment")
		all, _ := flags.GetBool("all")
		logLevel, _ := flags.GetString("log-level")
		maxTransitions, _ := flags.GetInt("max-transitions")
		noColor, _ := flags.GetBool("no-color")
		traceRules, _ := flags.GetBool("trace-rules")
		quiet, _ := flags.GetBool("quiet")
		redisAddr, _ := flags.GetString("redis-addr")
		redisStream, _ := flags.GetString("redis-stream")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Execute(sigCtx, cli.RunOptions{
			ScenarioPath:   scenarioPath,
			User:           user,
			Payment:        payment,
			All:            all,
			LogLevel:       logLevel,
			MaxTransitions: maxTransitions,
			TraceRules:     traceRules,
			Quiet:          quiet,
			RedisAddr:      redisAddr,
			RedisStream:    redisStream,
			Profile:        cli.DetectProfile(os.Stdout, noColor),
			Stdout:         cmd.OutOrStdout(),
			Stderr:         cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("user", "GUEST_USER", "User type chosen at authentication (GUEST_USER, REGISTERED_USER)")
	runCmd.Flags().String("payment", "SUCCESSFUL", "Payment outcome (SUCCESSFUL, FAILED)")
	runCmd.Flags().Bool("all", false, "Run all four user and payment combinations")
	runCmd.Flags().Bool("trace-rules", false, "Also print every rule firing")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress narration")
	runCmd.Flags().String("redis-addr", "", "Publish transitions to the Redis server at this address")
	runCmd.Flags().String("redis-stream", "cascade:events", "Redis stream key for published transitions")

}
