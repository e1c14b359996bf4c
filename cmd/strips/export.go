package main

import (
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <model>...",
	Short: "Write the model as a directory of Loam documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		return cli.RunExport(cmd.Context(), env, os.Stdout, args, dir)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("dir", "model", "Target directory")
}
