package models

import "time"

// CandidateSlot is a bookable (provider, start, duration) triple produced by
// the slot resolver. It is transient and may already be stale by the time a
// commit is attempted; the ledger re-checks atomically.
type CandidateSlot struct {
	ProviderID string        `json:"provider_id"`
	Start      time.Time     `json:"start"`
	Duration   time.Duration `json:"duration"`

	// Score is minutes past the requested earliest time; lower ranks first.
	// Continuity marks a provider the caller already has an active booking
	// with, which wins ties.
	Score      float64 `json:"score"`
	Continuity bool    `json:"continuity,omitempty"`
	Priority   int     `json:"-"`
}

func (c CandidateSlot) End() time.Time {
	return c.Start.Add(c.Duration)
}

func (c CandidateSlot) Interval() Interval {
	return Interval{Start: c.Start, End: c.End()}
}
