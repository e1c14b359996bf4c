/*
Package strips is a classical planner for STRIPS models with typed objects.

It grounds a lifted domain and a problem instance into a propositional task,
then runs an optimal breadth-first forward search from the initial state to a
state that satisfies the goal. The result is the shortest sequence of ground
actions, or a definite verdict that no plan exists.

# Concept

A domain declares types, predicates and action schemas with typed parameters.
A problem declares objects, the initial facts and the goal. Grounding binds
every schema parameter to every object of a compatible type; the search then
works on sets of ground atoms only. States are immutable and compared by
content, so no state is expanded twice.

# Key Features

  - Optimal Plans: breadth-first search returns a plan of minimal length.
  - Bounded Search: expansion budgets, timeouts and an abort switch report
    domain.OutcomeBudgetExceeded instead of running forever.
  - Parallel Search: layer-synchronous expansion over a worker pool keeps plans optimal.
  - Plan Validation: any plan can be replayed to find the first broken precondition.
  - Hexagonal Architecture: models come from YAML/JSON files or a Loam
    repository, and results can be cached in memory, on disk or in Redis.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/strips"
	)

	func main() {
		ctx := context.Background()
		p, err := strips.Open(ctx, []string{"domain.yaml", "problem.yaml"}, "")
		if err != nil {
			log.Fatal(err)
		}

		res, err := p.Solve(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if err := res.Err(); err != nil {
			log.Fatal(err) // unsolvable or out of budget
		}
		fmt.Println(res.Plan)
	}

For more details on the model format, see package document.
*/
package strips
