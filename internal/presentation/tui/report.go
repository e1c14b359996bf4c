package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/strips/pkg/domain"
)

// PlanMarkdown renders a search result as a markdown report.
func PlanMarkdown(problem string, res *domain.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", problem)

	verdict := string(res.Outcome)
	if res.Reason != "" {
		verdict += " (" + res.Reason + ")"
	}
	fmt.Fprintf(&sb, "**Outcome:** %s\n\n", verdict)

	if res.Solved() {
		fmt.Fprintf(&sb, "## Plan (%d steps)\n\n", res.Plan.Len())
		if res.Plan.Len() == 0 {
			sb.WriteString("_The initial state already satisfies the goal._\n")
		}
		for i, step := range res.Plan.Strings() {
			fmt.Fprintf(&sb, "%d. `%s`\n", i+1, step)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(StatsMarkdown(res.Stats))
	return sb.String()
}

// StatsMarkdown renders search counters as a table.
func StatsMarkdown(st domain.Stats) string {
	var sb strings.Builder
	sb.WriteString("| Expanded | Generated | Duplicates | Max frontier | Depth | Elapsed |\n")
	sb.WriteString("|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d | %d | %s |\n",
		st.Expanded, st.Generated, st.Duplicates, st.MaxFrontier, st.Depth, st.Elapsed.Round(time.Microsecond))
	return sb.String()
}

// AgentRow is one line of the per-agent summary.
type AgentRow struct {
	Agent   string
	Actions int
	Result  *domain.Result
}

// AgentsMarkdown renders the single-agent outcomes as a table under the
// overall verdict.
func AgentsMarkdown(problem, verdict string, rows []AgentRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s: agents\n\n", problem)
	fmt.Fprintf(&sb, "**Verdict:** %s\n\n", verdict)
	if len(rows) == 0 {
		sb.WriteString("_No agent owns a goal._\n")
		return sb.String()
	}
	sb.WriteString("| Agent | Actions | Outcome | Steps | Expanded |\n")
	sb.WriteString("|---|---:|---|---:|---:|\n")
	for _, r := range rows {
		steps := "-"
		if r.Result.Solved() {
			steps = fmt.Sprint(r.Result.Plan.Len())
		}
		fmt.Fprintf(&sb, "| %s | %d | %s | %s | %d |\n",
			r.Agent, r.Actions, r.Result.Outcome, steps, r.Result.Stats.Expanded)
	}
	return sb.String()
}
