package main

import (
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage the plan cache",
	Long:  `List, inspect, and remove plan records kept by the configured cache backend.`,
}

var plansLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		return cli.RunPlansList(cmd.Context(), env, os.Stdout)
	},
}

var plansInspectCmd = &cobra.Command{
	Use:   "inspect <key>",
	Short: "Print a stored plan record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		return cli.RunPlansInspect(cmd.Context(), env, os.Stdout, args[0])
	},
}

var plansRmCmd = &cobra.Command{
	Use:   "rm <key>...",
	Short: "Remove one or more stored plans",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		return cli.RunPlansRemove(cmd.Context(), env, os.Stdout, args)
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansLsCmd)
	plansCmd.AddCommand(plansInspectCmd)
	plansCmd.AddCommand(plansRmCmd)
}
