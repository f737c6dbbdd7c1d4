package models

import "time"

type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

type OpPriority string

const (
	PriorityLow    OpPriority = "low"
	PriorityNormal OpPriority = "normal"
	PriorityHigh   OpPriority = "high"
)

type OpStatus string

const (
	OpPending  OpStatus = "pending"
	OpInFlight OpStatus = "in_flight"
	OpFailed   OpStatus = "failed"
	OpDone     OpStatus = "done"
)

// Operation is one entry of the durable operation log: a local mutation that
// has not yet been acknowledged by the server. Entries for the same EntityID
// are pushed in enqueue order; cross-entity order is unconstrained.
type Operation struct {
	ID           string         `json:"id"`
	EntityType   string         `json:"entity_type"`
	EntityID     string         `json:"entity_id"`
	Kind         OpKind         `json:"kind"`
	PayloadDelta map[string]any `json:"payload_delta,omitempty"`
	EnqueuedAt   time.Time      `json:"enqueued_at"`
	Attempts     int            `json:"attempts"`
	Priority     OpPriority     `json:"priority"`
	Status       OpStatus       `json:"status"`

	// FailureReason is set when Status is OpFailed.
	FailureReason string `json:"failure_reason,omitempty"`
}

// ValidKind reports whether k is one of the three supported operation kinds.
func ValidKind(k OpKind) bool {
	return k == OpCreate || k == OpUpdate || k == OpDelete
}

// CanTransition reports whether the operation status state machine allows
// moving from one status to another. An entry is picked up by a push
// (pending to in flight) and then acknowledged, requeued, or failed.
func CanTransition(from, to OpStatus) bool {
	switch to {
	case OpInFlight:
		return from == OpPending
	case OpPending, OpFailed, OpDone:
		return from == OpInFlight
	default:
		return false
	}
}
