package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/strips/pkg/domain"
)

// Overlay controls optional decorations of the plan graph.
type Overlay struct {
	// Full labels every state with all of its atoms instead of the change
	// made by the incoming action.
	Full bool
	// ByAgent colours edges by the first argument of their action.
	ByAgent bool
}

var agentColors = []string{"#1e88e5", "#e53935", "#43a047", "#fb8c00", "#8e24aa", "#00897b"}

// GenerateMermaid produces a Mermaid flowchart of the states a plan visits.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Goal state: (((Double circle)))
// - Intermediate: [Rectangle]
// A step that cannot be applied ends the chart in a [/broken/] node.
func GenerateMermaid(task *domain.Task, plan domain.Plan, overlay *Overlay) string {
	if overlay == nil {
		overlay = &Overlay{}
	}
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	s := task.Init
	sb.WriteString(fmt.Sprintf("    s0((\"%s\"))\n", stateLabel(task, s, nil, overlay.Full, "initial state")))

	agents := make(map[string]int)
	broken := -1
	for i, a := range plan.Steps {
		from, to := stateID(i), stateID(i+1)
		if !s.Applicable(a) {
			broken = i
			reason := strings.ReplaceAll(s.DescribeInvalid(task.Atoms, a).Error(), "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", to, reason))
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", from, a.String(), to))
			break
		}
		next, err := s.Apply(a)
		if err != nil {
			broken = i
			break
		}

		label := stateLabel(task, next, a, overlay.Full, "")
		opener, closer := "[", "]"
		if i == len(plan.Steps)-1 && task.IsGoal(next) {
			opener, closer = "(((", ")))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", to, opener, label, closer))
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", from, a.String(), to))

		if overlay.ByAgent && len(a.Args) > 0 {
			if _, ok := agents[a.Args[0]]; !ok {
				agents[a.Args[0]] = len(agents)
			}
			color := agentColors[agents[a.Args[0]]%len(agentColors)]
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:%s,stroke-width:2px;\n", i, color))
		}
		s = next
	}

	sb.WriteString("\n    %% Styles\n")
	sb.WriteString("    classDef goal fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef broken fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")
	switch {
	case broken >= 0:
		sb.WriteString(fmt.Sprintf("    class %s broken;\n", stateID(broken+1)))
	case task.IsGoal(s):
		sb.WriteString(fmt.Sprintf("    class %s goal;\n", stateID(len(plan.Steps))))
	}

	return sb.String()
}

func stateID(i int) string {
	return fmt.Sprintf("s%d", i)
}

// stateLabel renders either all atoms of s or the effect of a.
func stateLabel(task *domain.Task, s domain.State, a *domain.GroundAction, full bool, fallback string) string {
	var lines []string
	switch {
	case full:
		lines = task.Atoms.Format(s.Atoms())
	case a != nil:
		for _, id := range a.Add {
			lines = append(lines, "+ "+task.Atoms.Atom(id).String())
		}
		for _, id := range a.Del {
			if s.Has(id) {
				continue // added back by the same action
			}
			lines = append(lines, "- "+task.Atoms.Atom(id).String())
		}
	}
	if len(lines) == 0 {
		return fallback
	}
	return strings.Join(lines, "<br/>")
}
