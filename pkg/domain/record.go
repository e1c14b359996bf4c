package domain

import "time"

// PlanRecord is the persisted form of a search result.
type PlanRecord struct {
	Key       string    `json:"key"`
	RunID     string    `json:"run_id"`
	Problem   string    `json:"problem"`
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
	Actions   []string  `json:"actions"`
	Expanded  int       `json:"expanded"`
	Generated int       `json:"generated"`
	ElapsedMS int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`

	// Sealed holds the encrypted record when the store encrypts at rest.
	Sealed string `json:"sealed,omitempty"`
}

// NewPlanRecord captures res under key.
func NewPlanRecord(key, problem string, res *Result) *PlanRecord {
	return &PlanRecord{
		Key:       key,
		RunID:     res.RunID,
		Problem:   problem,
		Outcome:   res.Outcome,
		Reason:    res.Reason,
		Actions:   res.Plan.Strings(),
		Expanded:  res.Stats.Expanded,
		Generated: res.Stats.Generated,
		ElapsedMS: res.Stats.Elapsed.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
}

// Cacheable reports whether the record is a definitive answer. Budget
// exhaustion depends on the limits of one run and is not worth keeping.
func (r *PlanRecord) Cacheable() bool {
	return r.Outcome == OutcomeSolved || r.Outcome == OutcomeUnsolvable
}
