package main

import (
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <model>...",
	Short: "Export the plan visualization",
	Long:  `Solves the problem, or replays --plan, and outputs a Mermaid diagram (graph TD) of the visited states.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		opts := cli.GraphOptions{Paths: args}
		opts.Plan, _ = cmd.Flags().GetString("plan")
		opts.Full, _ = cmd.Flags().GetBool("full")
		opts.ByAgent, _ = cmd.Flags().GetBool("by-agent")
		return cli.RunGraph(cmd.Context(), env, os.Stdin, os.Stdout, opts)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("plan", "", "Plan file to draw instead of solving ('-' reads stdin)")
	graphCmd.Flags().Bool("full", false, "Label states with all their atoms")
	graphCmd.Flags().Bool("by-agent", false, "Colour edges by agent")
}
