package main

import (
	"fmt"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the rule graph for cycles",
	Long: `Loads the scenario and reports rule chains that re-enter the state that started them.
A cycle is not an error for the engine, but a divergent one will hit the transition cap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarioPath, _ := cmd.Flags().GetString("scenario")

		eng, err := cli.LoadEngine(scenarioPath)
		if err != nil {
			return err
		}

		if err := eng.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rule graph is valid: %d entities, %d rules ✅\n", len(eng.Entities()), len(eng.Rules()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
