/*
Package ports defines the driven ports (interfaces) of the planner.

These interfaces decouple the search core from external implementations, so
the same planner works with model files, Loam repositories and in-memory
fixtures, and caches plans in memory or in Redis.

# Key Interfaces

  - ModelLoader: Loads the domain and the problems (e.g., from files, Loam or Memory).
  - PlanStore: Persists search outcomes keyed by problem fingerprint.
  - DistributedLocker: Serializes concurrent searches for the same key across replicas.
  - PlanService: The driving port used by the HTTP and MCP adapters.
*/
package ports
