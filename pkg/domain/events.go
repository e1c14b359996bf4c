package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSearchStart  EventType = "search_start"
	EventStateExpand  EventType = "state_expand"
	EventGoalReached  EventType = "goal_reached"
	EventSearchFinish EventType = "search_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// SearchEvent describes the start of a run or the discovery of a goal.
type SearchEvent struct {
	EventBase
	Task    string `json:"task"`
	Actions int    `json:"actions"`
	Depth   int    `json:"depth"`
}

// ExpandEvent is emitted after a state had its successors generated.
type ExpandEvent struct {
	EventBase
	Depth      int `json:"depth"`
	Successors int `json:"successors"`
	Frontier   int `json:"frontier"`
}

// FinishEvent is emitted once per run with the final counters.
type FinishEvent struct {
	EventBase
	Outcome    Outcome `json:"outcome"`
	Reason     string  `json:"reason,omitempty"`
	PlanLength int     `json:"plan_length"`
	Stats      Stats   `json:"stats"`
}

// SearchHooks defines callbacks for search observability. With more than one
// worker OnExpand is called concurrently and must be safe for that.
type SearchHooks struct {
	OnStart  func(context.Context, *SearchEvent)
	OnExpand func(context.Context, *ExpandEvent)
	OnGoal   func(context.Context, *SearchEvent)
	OnFinish func(context.Context, *FinishEvent)
}

// Merge returns hooks that call h first and then other.
func (h SearchHooks) Merge(other SearchHooks) SearchHooks {
	return SearchHooks{
		OnStart:  chain(h.OnStart, other.OnStart),
		OnExpand: chain(h.OnExpand, other.OnExpand),
		OnGoal:   chain(h.OnGoal, other.OnGoal),
		OnFinish: chain(h.OnFinish, other.OnFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
