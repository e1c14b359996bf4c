package main

import (
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents <model>...",
	Short: "Check which agents can reach their goals alone",
	Long: `Splits the task by agent (the first argument of each action and goal atom)
and solves each agent's share on its own.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return cli.RunAgents(cmd.Context(), env, os.Stdout, args, format)
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.Flags().StringP("output", "o", cli.FormatAuto, "Output format: auto, text, json or markdown")
}
