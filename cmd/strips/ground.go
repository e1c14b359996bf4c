package main

import (
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

var groundCmd = &cobra.Command{
	Use:   "ground <model>...",
	Short: "Ground the problem and summarize the task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		opts := cli.GroundOptions{Paths: args}
		opts.Format, _ = cmd.Flags().GetString("output")
		opts.Actions, _ = cmd.Flags().GetBool("actions")
		opts.Init, _ = cmd.Flags().GetBool("init")
		return cli.RunGround(cmd.Context(), env, os.Stdout, opts)
	},
}

func init() {
	rootCmd.AddCommand(groundCmd)
	groundCmd.Flags().StringP("output", "o", cli.FormatText, "Output format: text, json or markdown")
	groundCmd.Flags().Bool("actions", false, "List every ground action")
	groundCmd.Flags().Bool("init", false, "List the initial state")
}
