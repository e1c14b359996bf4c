package transform

import (
	"github.com/aretw0/strips/pkg/domain"
)

// NullAgent owns the actions and goals that have no argument.
const NullAgent = "null"

// Agent is the share of a task attributed to one agent.
type Agent struct {
	Name    string
	Actions []int // indices into the task's actions, in declaration order
	Goal    domain.GoalSet
}

// Agents partitions the actions and goal atoms of task by their first
// argument. Agents are returned in order of first appearance among the
// actions, followed by agents that only appear in the goal.
func Agents(task *domain.Task) []Agent {
	var agents []Agent
	index := make(map[string]int)
	get := func(name string) *Agent {
		i, ok := index[name]
		if !ok {
			i = len(agents)
			index[name] = i
			agents = append(agents, Agent{Name: name})
		}
		return &agents[i]
	}

	for i := range task.Actions {
		a := get(actionAgent(&task.Actions[i]))
		a.Actions = append(a.Actions, i)
	}
	for _, id := range task.Goal.Positive {
		a := get(atomAgent(task.Atoms.Atom(id)))
		a.Goal.Positive = append(a.Goal.Positive, id)
	}
	for _, id := range task.Goal.Negative {
		a := get(atomAgent(task.Atoms.Atom(id)))
		a.Goal.Negative = append(a.Goal.Negative, id)
	}
	return agents
}

// AgentNames returns the agent names of task in the order used by Agents.
func AgentNames(task *domain.Task) []string {
	agents := Agents(task)
	out := make([]string, len(agents))
	for i, a := range agents {
		out[i] = a.Name
	}
	return out
}

func actionAgent(a *domain.GroundAction) string {
	if len(a.Args) == 0 {
		return NullAgent
	}
	return a.Args[0]
}

func atomAgent(a domain.Atom) string {
	if len(a.Args) == 0 {
		return NullAgent
	}
	return a.Args[0]
}
