package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of strips",
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimSpace(strips.Version)
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, version)
			return
		}
		fmt.Printf("strips version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
