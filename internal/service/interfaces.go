// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package service

import (
	"context"
	"time"

	"github.com/pocketplan/pocketsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Queue is the durable, ordered log of pending local mutations. It owns the
// operation-log entries and the apply step that keeps local records and the
// log consistent: a record becomes dirty if and only if an operation for it
// enters the queue.
type Queue interface {
	// Enqueue validates op, applies its payload delta to the local record
	// (create/update kinds), and appends a pending entry to the durable
	// log. The entry is persisted before Enqueue returns, so a crash never
	// loses an accepted operation. Returns ErrInvalidOperation if the
	// entity type or id is empty or the kind is unknown.
	Enqueue(ctx context.Context, op models.Operation) (models.Operation, error)

	// NextBatch returns the oldest pending entries respecting per-entity
	// FIFO order and the caller's limits, and marks them in flight.
	// Entities whose type appears in skipEntityTypes contribute nothing;
	// maxBytes caps the serialised batch size but never blocks the first
	// entry.
	NextBatch(ctx context.Context, maxOps, maxBytes int, skipEntityTypes []string) ([]models.Operation, error)

	// Acknowledge transitions entries to done and removes them. When an
	// entity has no remaining live entries its record is marked synced
	// (dirty cleared).
	Acknowledge(ctx context.Context, ids []string) error

	// MarkFailed permanently fails an entry after an application-level
	// rejection. The entry is kept (never silently dropped) and surfaced
	// through the notification sink; it is not retried automatically.
	MarkFailed(ctx context.Context, id, reason string) error

	// Requeue resets an in-flight entry back to pending after a transport
	// failure, incrementing its attempt counter. Once attempts reach the
	// configured ceiling the entry is marked failed instead; the return
	// value reports whether the entry went back to pending.
	Requeue(ctx context.Context, id, reason string) (requeued bool, err error)

	// RecoverInFlight resets entries left in flight by an interrupted push
	// back to pending, preserving their attempt counters. The engine calls
	// it before each push phase; its single-flight guard means nothing can
	// legitimately be in flight at that point. Returns how many entries
	// were recovered.
	RecoverInFlight(ctx context.Context) (int, error)

	// PendingDelta folds the payload deltas of every live entry for an
	// entity, in enqueue order. The conflict resolver uses it to know
	// which fields changed locally.
	PendingDelta(ctx context.Context, entityID string) (map[string]any, error)

	// HasPendingDelete reports whether a live delete entry exists for the
	// entity. The reconciler uses it to tell a never-synced entity apart
	// from one removed locally while its delete is still queued.
	HasPendingDelete(ctx context.Context, entityID string) (bool, error)

	// DiscardDeletes removes live delete entries for an entity. Used when
	// a local-delete/remote-update race is settled in favour of the
	// remote copy, so the stale deletion never reaches the server.
	DiscardDeletes(ctx context.Context, entityID string) error

	// Counts reports queue depth per status for the pending-changes
	// indicator and the health tracker's backlog signal.
	Counts(ctx context.Context) (map[models.OpStatus]int, error)
}

// NetworkMonitor classifies the link from a rolling window of real transfer
// timings plus the platform connectivity signal. Sample never blocks and
// issues no network traffic of its own.
type NetworkMonitor interface {
	// Sample returns the current quality estimate from cached state.
	Sample() models.NetworkQuality

	// Observe records the timing of a completed sync transfer. It is the
	// adapter's TransferObserver hook.
	Observe(bytes int, duration time.Duration, err error)

	// SetConnected feeds the raw platform connectivity signal.
	SetConnected(connected bool)
}

// ConflictResolver detects divergence between a local record and a remote
// delta, classifies it, and applies resolution strategies. It depends on
// nothing but the data model.
type ConflictResolver interface {
	// Detect returns a conflict only if both sides changed since the last
	// common synced version; otherwise nil, and the caller applies the
	// side that changed. localDelta carries the locally-changed fields
	// (folded from the entity's queued operations).
	Detect(local models.Record, remote models.RemoteDelta, localDelta map[string]any) *models.Conflict

	// Classify grades the conflict by the most sensitive field it touches.
	Classify(conflict models.Conflict) models.ConflictSeverity

	// SuggestResolution picks a strategy: requireManual for critical
	// conflicts, otherwise the side with the later timestamp, falling back
	// to a field merge for medium/low conflicts with non-overlapping
	// diffs.
	SuggestResolution(conflict models.Conflict) models.ResolutionStrategy

	// Resolve applies strategy and returns the merged record with
	// last_synced_version raised to the remote version and dirty cleared.
	// With the fieldMerge strategy a field changed on both sides is
	// escalated alone: the remainder of the record still merges and the
	// overlapping fields come back as a residual requireManual conflict.
	// manualPayload is consulted only by requireManual.
	Resolve(conflict models.Conflict, strategy models.ResolutionStrategy, manualPayload map[string]any) (models.Record, *models.Conflict, error)

	// BulkResolve applies one strategy across a homogeneous set and
	// reports how many conflicts were resolved and how many were skipped
	// (critical conflicts and residual escalations are never bulk-applied).
	BulkResolve(conflicts []models.Conflict, policy models.ResolutionStrategy) (resolved []models.Record, skipped int)
}

// HealthTracker folds completed sync sessions into rolling aggregates and
// predictive alerts. It only observes; it never blocks the sync engine.
type HealthTracker interface {
	// Record folds a completed session into the bounded history.
	Record(session models.Session)

	// OperationFailed records a permanently failed operation in the
	// failure-reason histogram.
	OperationFailed(opID, reason string)

	// PredictNextFailureRisk combines recent failure rate, current network
	// tier, and queue backlog into a score in [0,1]. Crossing the
	// configured threshold emits a warning event to the notification sink.
	PredictNextFailureRisk(ctx context.Context) float64

	// Snapshot returns the rolling aggregates for the status indicator.
	Snapshot(ctx context.Context) HealthSnapshot
}

// EngineState is the sync engine's state machine position.
type EngineState string

const (
	StateIdle        EngineState = "idle"
	StatePreparing   EngineState = "preparing"
	StatePushing     EngineState = "pushing"
	StatePulling     EngineState = "pulling"
	StateReconciling EngineState = "reconciling"
	StateSuspended   EngineState = "suspended"
)

// SyncTrigger names what woke the engine.
type SyncTrigger string

const (
	TriggerTimer        SyncTrigger = "timer"
	TriggerConnectivity SyncTrigger = "connectivity"
	TriggerManual       SyncTrigger = "manual"
)

// SyncEngine orchestrates push/pull cycles. A single-flight guard ensures at
// most one cycle runs at a time.
type SyncEngine interface {
	// RequestSync runs one sync cycle. If a cycle is already running the
	// call is a no-op that returns the in-progress session's identifier.
	// While the engine is suspended only connectivity and manual triggers
	// start a cycle.
	RequestSync(ctx context.Context, trigger SyncTrigger) (sessionID string, err error)

	// State returns the engine's current state machine position.
	State() EngineState

	// LastSession returns the most recently completed session, or nil.
	LastSession() *models.Session

	// ManualConflicts lists conflicts parked for a user decision, oldest
	// first. They stay parked across cycles until resolved.
	ManualConflicts() []models.Conflict

	// ResolveManual applies a user decision to a parked conflict and
	// persists the result. manualPayload is required when strategy is
	// requireManual.
	ResolveManual(ctx context.Context, entityType, entityID string, strategy models.ResolutionStrategy, manualPayload map[string]any) error

	// NextWake tells the scheduler when to trigger again: the retry
	// backoff delay after a transport failure, otherwise the timer
	// interval for the current network tier. Zero means manual-only.
	NextWake() time.Duration
}

// SyncJob is the background scheduler feeding the engine's single
// RequestSync entry point from timer ticks, connectivity changes, and manual
// triggers.
type SyncJob interface {
	// Start launches the scheduler goroutine. Any previously running job
	// is stopped first. The goroutine exits when ctx is cancelled or Stop
	// is called.
	Start(ctx context.Context)

	// TriggerNow requests an immediate sync cycle.
	TriggerNow()

	// OnConnectivityChange feeds the platform connectivity signal; a
	// regained connection triggers an immediate cycle.
	OnConnectivityChange(connected bool)

	// Stop signals the scheduler to exit and blocks until it has fully
	// terminated. Safe to call when the job is not running.
	Stop()
}
