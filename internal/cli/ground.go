package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// GroundOptions configures the ground command.
type GroundOptions struct {
	Paths   []string
	Format  string
	Actions bool // list every ground action
	Init    bool // list the initial state
}

// RunGround grounds the problem and prints a summary of the task.
func RunGround(ctx context.Context, env *Env, out io.Writer, opts GroundOptions) error {
	format, err := resolveFormat(opts.Format, out)
	if err != nil {
		return err
	}
	p, err := env.Open(ctx, opts.Paths)
	if err != nil {
		return err
	}
	sum := p.Summary()

	if format == FormatJSON {
		return writeJSON(out, sum)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "task:    %s\n", sum.Task)
	fmt.Fprintf(&sb, "atoms:   %d\n", sum.Atoms)
	fmt.Fprintf(&sb, "actions: %d\n", len(sum.Actions))
	fmt.Fprintf(&sb, "init:    %d atoms\n", len(sum.Init))
	fmt.Fprintf(&sb, "agents:  %s\n", strings.Join(sum.Agents, ", "))
	if opts.Init {
		sb.WriteString("\ninitial state:\n")
		for _, a := range sum.Init {
			fmt.Fprintf(&sb, "  %s\n", a)
		}
	}
	if opts.Actions {
		sb.WriteString("\nground actions:\n")
		for _, a := range sum.Actions {
			fmt.Fprintf(&sb, "  %s\n", a)
		}
	}

	if format == FormatMarkdown {
		return writeMarkdown(out, "```\n"+sb.String()+"```\n")
	}
	_, err = io.WriteString(out, sb.String())
	return err
}
