package main

import (
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model>...",
	Short: "Check that a plan solves the problem",
	Long: `Replays a plan, one action per line, from the initial state. Reports the
first step whose preconditions fail, or a final state outside the goal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		opts := cli.ValidateOptions{Paths: args}
		opts.Plan, _ = cmd.Flags().GetString("plan")
		opts.Format, _ = cmd.Flags().GetString("output")
		return cli.RunValidate(cmd.Context(), env, os.Stdin, os.Stdout, opts)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("plan", "-", "Plan file, '-' reads stdin")
	validateCmd.Flags().StringP("output", "o", cli.FormatText, "Output format: text or json")
}
