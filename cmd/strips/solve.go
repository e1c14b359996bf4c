package main

import (
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve <model>...",
	Short: "Search for a plan",
	Long: `Grounds the problem and runs breadth-first search. The plan is printed one
action per line. Exit status 2 means no plan exists, 3 that a limit stopped
the search first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		return cli.RunSolve(cmd.Context(), env, os.Stdout, cli.SolveOptions{
			Paths:   args,
			Format:  format,
			NoCache: noCache,
		})
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("output", "o", cli.FormatAuto, "Output format: auto, text, json or markdown")
	solveCmd.Flags().Bool("no-cache", false, "Skip the plan cache")
}
