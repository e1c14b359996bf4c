/*
Package domain contains the core models of the planner.

It defines the lifted planning model (types, objects, predicates, action
schemas, problems), the grounded task derived from it (ground atoms, ground
actions, states, goals) and the values produced by a search (plans, outcomes,
results). This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Domain: predicate signatures and action schemas. Immutable once loaded.
  - Problem: typed objects, the initial atoms and the goal literals.
  - Task: the grounded problem: interned atoms, ground actions, initial state and goal.
  - State: an immutable, closed-world set of ground atoms with a content signature.
  - Plan: an ordered sequence of ground actions.
  - Result: the outcome of a search (solved, unsolvable or budget exceeded).
*/
package domain
