package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/strips/internal/presentation/tui"
)

// agentJSON is one entry of the JSON agents report.
type agentJSON struct {
	Agent    string   `json:"agent"`
	Actions  int      `json:"actions"`
	Outcome  string   `json:"outcome"`
	Reason   string   `json:"reason,omitempty"`
	Plan     []string `json:"plan"`
	Expanded int      `json:"expanded"`
}

// agentsJSON is the JSON agents report.
type agentsJSON struct {
	Verdict string      `json:"verdict"`
	Agents  []agentJSON `json:"agents"`
}

// RunAgents solves every agent's projection on its own and reports which
// agents can reach their goals alone, plus the overall verdict.
func RunAgents(ctx context.Context, env *Env, out io.Writer, paths []string, format string) error {
	format, err := resolveFormat(format, out)
	if err != nil {
		return err
	}
	p, err := env.Open(ctx, paths)
	if err != nil {
		return err
	}
	check, err := p.CheckAgents(ctx)
	if err != nil {
		return err
	}
	reports := check.Agents

	switch format {
	case FormatJSON:
		entries := make([]agentJSON, 0, len(reports))
		for _, r := range reports {
			plan := r.Plan.Strings()
			if plan == nil {
				plan = []string{}
			}
			entries = append(entries, agentJSON{
				Agent:    r.Agent,
				Actions:  r.Actions,
				Outcome:  string(r.Result.Outcome),
				Reason:   r.Result.Reason,
				Plan:     plan,
				Expanded: r.Result.Stats.Expanded,
			})
		}
		return writeJSON(out, agentsJSON{Verdict: string(check.Verdict), Agents: entries})
	case FormatMarkdown:
		rows := make([]tui.AgentRow, 0, len(reports))
		for _, r := range reports {
			rows = append(rows, tui.AgentRow{Agent: r.Agent, Actions: r.Actions, Result: r.Result})
		}
		return writeMarkdown(out, tui.AgentsMarkdown(p.Problem().Name, string(check.Verdict), rows))
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tACTIONS\tOUTCOME\tSTEPS")
	for _, r := range reports {
		steps := "-"
		if r.Result.Solved() {
			steps = fmt.Sprint(r.Plan.Len())
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Agent, r.Actions, r.Result.Outcome, steps)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nverdict: %s\n", check.Verdict)
	return err
}
