package models

import "time"

type SessionOutcome string

const (
	OutcomeSuccess   SessionOutcome = "success"
	OutcomePartial   SessionOutcome = "partial"
	OutcomeFailed    SessionOutcome = "failed"
	OutcomeCancelled SessionOutcome = "cancelled"
)

// Session summarises one completed sync cycle. It is appended to a bounded
// history consumed by the health tracker and never mutated after completion.
type Session struct {
	ID                    string         `json:"id"`
	StartedAt             time.Time      `json:"started_at"`
	NetworkQuality        NetworkQuality `json:"network_quality"`
	Pushed                int            `json:"pushed"`
	Pulled                int            `json:"pulled"`
	ConflictsSeen         int            `json:"conflicts_seen"`
	ConflictsAutoResolved int            `json:"conflicts_auto_resolved"`
	CompletedAt           time.Time      `json:"completed_at"`
	Outcome               SessionOutcome `json:"outcome"`
	FailureReason         string         `json:"failure_reason,omitempty"`
}

// Duration is the wall-clock length of the cycle.
func (s Session) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}
