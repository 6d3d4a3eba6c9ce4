package entity

import "time"

type RunOutcome string

const (
	RunPending   RunOutcome = "pending"
	RunCompleted RunOutcome = "completed"
	RunFailed    RunOutcome = "failed"
)

// RunStatistics aggregates the counters of a single ingestion run. It is never persisted.
type RunStatistics struct {
	RunID           string
	Category        string
	SearchTerms     []string
	Found           int
	Created         int
	Existing        int
	PricesCollected int
	StartedAt       time.Time
	Duration        time.Duration
	Outcome         RunOutcome
	Err             error
}

// Processed is the number of listings that resolved to a catalog entry.
func (s *RunStatistics) Processed() int {
	return s.Created + s.Existing
}
