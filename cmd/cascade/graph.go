package main

import (
	"fmt"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the rule graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the scenario's entities, links and merge points.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenarioPath, _ := cmd.Flags().GetString("scenario")
		withState, _ := cmd.Flags().GetBool("state")

		eng, err := cli.LoadEngine(scenarioPath)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if withState {
			overlay = &graph.GraphOverlay{States: eng.Snapshot()}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Entities(), eng.Rules(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("state", false, "Annotate nodes with their initial state")
}
