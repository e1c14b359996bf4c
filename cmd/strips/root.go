package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/strips/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strips",
	Short: "strips is a forward-search STRIPS planner",
	Long: `strips grounds a typed STRIPS domain and problem and searches for the
shortest plan with breadth-first search. Models are YAML or JSON files, or a
directory of Loam documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()

	if err := rootCmd.ExecuteContext(sc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code := cli.ExitCode(err)
		if sc.Signal() != nil {
			code = cli.ExitInterrupted
		}
		os.Exit(code)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "Config file (default: ./strips.yaml when present)")
	pf.StringP("problem", "p", "", "Problem to load when the model has several")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
	pf.Int("budget", 0, "Maximum number of state expansions (0 = unlimited)")
	pf.Duration("timeout", 0, "Search time limit, e.g. 30s (0 = none)")
	pf.Int("workers", 0, "Parallel search workers (1 = sequential)")
	pf.String("generator", "", "Successor generator: indexed or linear")
	pf.Bool("prune-static", false, "Drop ground actions ruled out by static facts")
	pf.Bool("positive", false, "Compile negative conditions away before searching")
}

// setup builds the command environment from the global flags.
func setup(cmd *cobra.Command) (*cli.Env, error) {
	f := cmd.Flags()
	opts := cli.Options{Changed: f.Changed}
	opts.ConfigPath, _ = f.GetString("config")
	opts.Problem, _ = f.GetString("problem")
	opts.LogLevel, _ = f.GetString("log-level")
	opts.LogFormat, _ = f.GetString("log-format")
	opts.Budget, _ = f.GetInt("budget")
	opts.Timeout, _ = f.GetDuration("timeout")
	opts.Workers, _ = f.GetInt("workers")
	opts.Generator, _ = f.GetString("generator")
	opts.PruneStatic, _ = f.GetBool("prune-static")
	opts.Positive, _ = f.GetBool("positive")
	return cli.Setup(opts, os.Stderr)
}
