// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pocketplan/pocketsync/internal/adapter"
	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/internal/notify"
	"github.com/pocketplan/pocketsync/internal/store"
	"github.com/pocketplan/pocketsync/models"
)

// EngineOptions tunes the sync engine's scheduling and batching behaviour.
type EngineOptions struct {
	IntervalGood        time.Duration
	IntervalFair        time.Duration
	BackoffBase         time.Duration
	BackoffCap          time.Duration
	SuspendAfterOffline int
	MaxBatchBytes       int
	DeferredEntityTypes []string
}

func (o *EngineOptions) defaults() {
	if o.IntervalGood <= 0 {
		o.IntervalGood = 30 * time.Second
	}
	if o.IntervalFair <= 0 {
		o.IntervalFair = 2 * time.Minute
	}
	if o.SuspendAfterOffline <= 0 {
		o.SuspendAfterOffline = 3
	}
	if o.MaxBatchBytes <= 0 {
		o.MaxBatchBytes = 256 * 1024
	}
}

type syncEngine struct {
	queue    Queue
	monitor  NetworkMonitor
	resolver ConflictResolver
	health   HealthTracker
	server   adapter.ServerAdapter
	records  store.RecordRepository
	meta     store.MetaRepository
	sink     notify.Sink
	opts     EngineOptions
	logger   *logger.Logger

	cycleMu sync.Mutex // held for the whole of a running cycle

	mu               sync.Mutex // guards the fields below
	state            EngineState
	lastSession      *models.Session
	currentSessionID string
	offlineStreak    int
	backoff          *backoffState
	manualConflicts  []models.Conflict
}

// NewSyncEngine wires the sync cycle orchestrator. It restores the suspended
// flag from durable metadata so a restart does not silently resume syncing
// on a link that was already known dead.
func NewSyncEngine(
	queue Queue,
	monitor NetworkMonitor,
	resolver ConflictResolver,
	health HealthTracker,
	server adapter.ServerAdapter,
	records store.RecordRepository,
	meta store.MetaRepository,
	sink notify.Sink,
	opts EngineOptions,
	log *logger.Logger,
) SyncEngine {
	opts.defaults()

	e := &syncEngine{
		queue:    queue,
		monitor:  monitor,
		resolver: resolver,
		health:   health,
		server:   server,
		records:  records,
		meta:     meta,
		sink:     sink,
		opts:     opts,
		logger:   log,
		state:    StateIdle,
		backoff:  newBackoffState(opts.BackoffBase, opts.BackoffCap),
	}

	if suspended, err := meta.GetValue(context.Background(), store.MetaSuspended); err == nil && suspended == "1" {
		e.state = StateSuspended
	}

	return e
}

func (e *syncEngine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *syncEngine) LastSession() *models.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastSession == nil {
		return nil
	}
	session := *e.lastSession
	return &session
}

// ManualConflicts returns conflicts awaiting a user decision, newest last.
func (e *syncEngine) ManualConflicts() []models.Conflict {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Conflict, len(e.manualConflicts))
	copy(out, e.manualConflicts)
	return out
}

func (e *syncEngine) NextWake() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateSuspended {
		return 0
	}
	if delay := e.backoff.Pending(); delay > 0 {
		return delay
	}

	switch e.monitor.Sample().Tier {
	case models.TierExcellent, models.TierGood:
		return e.opts.IntervalGood
	case models.TierFair:
		return e.opts.IntervalFair
	default:
		// Poor and offline links sync on demand only.
		return 0
	}
}

func (e *syncEngine) RequestSync(ctx context.Context, trigger SyncTrigger) (string, error) {
	if !e.cycleMu.TryLock() {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.currentSessionID, nil
	}
	defer e.cycleMu.Unlock()

	e.mu.Lock()
	if e.state == StateSuspended && trigger == TriggerTimer {
		e.mu.Unlock()
		return "", nil
	}
	sessionID := uuid.NewString()
	e.currentSessionID = sessionID
	e.mu.Unlock()

	session := models.Session{
		ID:        sessionID,
		StartedAt: time.Now().UTC(),
	}

	e.logger.Info().
		Str("session_id", sessionID).
		Str("trigger", string(trigger)).
		Msg("sync cycle started")

	err := e.runCycle(ctx, &session)

	session.CompletedAt = time.Now().UTC()
	if session.Outcome == "" {
		session.Outcome = models.OutcomeSuccess
	}

	e.mu.Lock()
	e.lastSession = &session
	e.currentSessionID = ""
	if e.state != StateSuspended {
		e.state = StateIdle
	}
	e.mu.Unlock()

	e.health.Record(session)

	e.logger.Info().
		Str("session_id", sessionID).
		Str("outcome", string(session.Outcome)).
		Int("pushed", session.Pushed).
		Int("pulled", session.Pulled).
		Int("conflicts", session.ConflictsSeen).
		Dur("duration", session.Duration()).
		Msg("sync cycle finished")

	return sessionID, err
}

func (e *syncEngine) runCycle(ctx context.Context, session *models.Session) error {
	e.mu.Lock()
	wasSuspended := e.state == StateSuspended
	e.mu.Unlock()

	e.setState(StatePreparing)

	quality := e.monitor.Sample()
	session.NetworkQuality = quality

	if !quality.Online() {
		e.noteOffline(session)
		return nil
	}
	e.noteOnline(wasSuspended)

	strategy := strategyForTier(quality.Tier, e.opts.DeferredEntityTypes)
	if strategy.maxOps == 0 {
		session.Outcome = models.OutcomeCancelled
		session.FailureReason = "no usable network"
		return nil
	}

	if err := e.push(ctx, session, strategy); err != nil {
		return err
	}
	if session.Outcome == models.OutcomeFailed {
		return nil
	}

	if err := e.pull(ctx, session); err != nil {
		return err
	}

	if session.Outcome == "" || session.Outcome == models.OutcomeSuccess {
		e.resetBackoff()
	}
	return nil
}

func (e *syncEngine) push(ctx context.Context, session *models.Session, strategy syncStrategy) error {
	e.setState(StatePushing)

	// Entries wedged in flight by a crash or a push response that ignored
	// them go back to pending first; nothing can legitimately be in flight
	// outside a running cycle.
	if _, err := e.queue.RecoverInFlight(ctx); err != nil {
		session.Outcome = models.OutcomeFailed
		session.FailureReason = err.Error()
		return err
	}

	for {
		if ctx.Err() != nil {
			session.Outcome = models.OutcomeCancelled
			session.FailureReason = ctx.Err().Error()
			return nil
		}

		batch, err := e.queue.NextBatch(ctx, strategy.maxOps, e.opts.MaxBatchBytes, strategy.deferredTypes)
		if err != nil {
			session.Outcome = models.OutcomeFailed
			session.FailureReason = err.Error()
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		resp, err := e.server.Push(ctx, models.PushRequest{Operations: batch, Length: len(batch)}, strategy.compress)
		if err != nil {
			e.handlePushError(ctx, session, batch, err)
			return nil
		}

		if err = e.queue.Acknowledge(ctx, resp.Accepted); err != nil {
			session.Outcome = models.OutcomeFailed
			session.FailureReason = err.Error()
			return err
		}
		session.Pushed += len(resp.Accepted)

		for _, rejected := range resp.Rejected {
			if err = e.queue.MarkFailed(ctx, rejected.ID, rejected.Reason); err != nil {
				return err
			}
			e.health.OperationFailed(rejected.ID, rejected.Reason)
			session.Outcome = models.OutcomePartial
		}

		// A batch can come up short on the byte cap or on deferred types
		// while more pushable entries remain, so drain until NextBatch
		// itself runs dry.
	}
}

// handlePushError requeues the whole in-flight batch after a transport
// failure and schedules the next retry. Application-level rejections of the
// entire request fail the batch permanently instead.
func (e *syncEngine) handlePushError(ctx context.Context, session *models.Session, batch []models.Operation, pushErr error) {
	transport := adapter.IsTransport(pushErr)

	for _, op := range batch {
		if transport {
			if _, err := e.queue.Requeue(ctx, op.ID, pushErr.Error()); err != nil && !errors.Is(err, ErrNotInFlight) {
				e.logger.Error().Err(err).Str("op_id", op.ID).Msg("requeue after transport failure")
			}
			continue
		}
		if err := e.queue.MarkFailed(ctx, op.ID, pushErr.Error()); err != nil {
			e.logger.Error().Err(err).Str("op_id", op.ID).Msg("mark failed after rejection")
		}
		e.health.OperationFailed(op.ID, pushErr.Error())
	}

	session.Outcome = models.OutcomeFailed
	session.FailureReason = pushErr.Error()

	if transport {
		delay := e.advanceBackoff()
		e.logger.Warn().
			Err(pushErr).
			Dur("retry_in", delay).
			Msg("push failed, batch requeued")
	}
}

func (e *syncEngine) pull(ctx context.Context, session *models.Session) error {
	e.setState(StatePulling)

	cursor, err := e.meta.GetValue(ctx, store.MetaPullCursor)
	if err != nil {
		session.Outcome = models.OutcomeFailed
		session.FailureReason = err.Error()
		return err
	}

	for {
		if ctx.Err() != nil {
			session.Outcome = models.OutcomeCancelled
			session.FailureReason = ctx.Err().Error()
			return nil
		}

		resp, err := e.server.Pull(ctx, cursor)
		if err != nil {
			session.Outcome = models.OutcomeFailed
			session.FailureReason = err.Error()
			if adapter.IsTransport(err) {
				e.advanceBackoff()
			}
			return nil
		}

		if len(resp.Deltas) == 0 && resp.NextCursor == cursor {
			return nil
		}

		e.setState(StateReconciling)
		if err = e.reconcile(ctx, session, resp.Deltas); err != nil {
			session.Outcome = models.OutcomeFailed
			session.FailureReason = err.Error()
			return err
		}

		// The cursor only advances once every delta in the page has been
		// applied, so an interrupted pull replays rather than skips.
		cursor = resp.NextCursor
		if err = e.meta.SetValue(ctx, store.MetaPullCursor, cursor); err != nil {
			session.Outcome = models.OutcomeFailed
			session.FailureReason = err.Error()
			return err
		}

		if len(resp.Deltas) == 0 {
			return nil
		}
		e.setState(StatePulling)
	}
}

func (e *syncEngine) reconcile(ctx context.Context, session *models.Session, deltas []models.RemoteDelta) error {
	for _, delta := range deltas {
		local, err := e.records.Get(ctx, delta.EntityType, delta.ID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		// Replayed or stale deltas have nothing new to say.
		if err == nil && delta.RemoteVersion <= local.LastSyncedVersion {
			continue
		}

		if delta.Deleted {
			if err = e.reconcileTombstone(ctx, session, local, delta, err == nil); err != nil {
				return err
			}
			continue
		}

		if errors.Is(err, store.ErrRecordNotFound) {
			// A missing record may be one the user deleted offline, not
			// one this client never had: the snapshot goes away at
			// enqueue time while the delete entry is still queued. A
			// remote edit racing such a deletion must not resurrect the
			// record behind the user's back.
			pendingDelete, derr := e.queue.HasPendingDelete(ctx, delta.ID)
			if derr != nil {
				return derr
			}
			if pendingDelete {
				session.ConflictsSeen++
				e.parkConflict(models.Conflict{
					EntityType:        delta.EntityType,
					ID:                delta.ID,
					Remote:            delta,
					LocalDeleted:      true,
					Severity:          models.SeverityCritical,
					SuggestedStrategy: models.RequireManual,
				})
				session.Outcome = models.OutcomePartial
				continue
			}
		}

		if errors.Is(err, store.ErrRecordNotFound) || !local.Dirty {
			if err = e.applyRemote(ctx, local, delta, err == nil); err != nil {
				if errors.Is(err, store.ErrRecordStale) {
					continue
				}
				return err
			}
			session.Pulled++
			continue
		}

		localDelta, err := e.queue.PendingDelta(ctx, delta.ID)
		if err != nil {
			return err
		}

		conflict := e.resolver.Detect(local, delta, localDelta)
		if conflict == nil {
			if err = e.applyRemote(ctx, local, delta, true); err != nil {
				if errors.Is(err, store.ErrRecordStale) {
					continue
				}
				return err
			}
			session.Pulled++
			continue
		}
		session.ConflictsSeen++

		resolved, residual, err := e.resolver.Resolve(*conflict, conflict.SuggestedStrategy, nil)
		if errors.Is(err, ErrManualResolutionRequired) {
			e.parkConflict(*conflict)
			session.Outcome = models.OutcomePartial
			continue
		}
		if err != nil {
			return err
		}

		if err = e.records.ApplyResolution(ctx, resolved); err != nil {
			return err
		}
		session.Pulled++
		session.ConflictsAutoResolved++

		if residual != nil {
			e.parkConflict(*residual)
			session.Outcome = models.OutcomePartial
		}
	}
	return nil
}

// reconcileTombstone applies a remote deletion. A clean local record is
// removed outright. A dirty one is a modify/delete race: the deletion wins
// when the server change is strictly newer, otherwise the record is parked
// for a user decision.
func (e *syncEngine) reconcileTombstone(ctx context.Context, session *models.Session, local models.Record, delta models.RemoteDelta, exists bool) error {
	if !exists {
		return nil
	}

	if !local.Dirty || delta.RemoteUpdatedAt.After(local.UpdatedAt) {
		if err := e.records.Delete(ctx, delta.EntityType, delta.ID); err != nil {
			return err
		}
		session.Pulled++
		return nil
	}

	session.ConflictsSeen++
	e.parkConflict(models.Conflict{
		EntityType:        delta.EntityType,
		ID:                delta.ID,
		Local:             local,
		Remote:            delta,
		Severity:          models.SeverityCritical,
		SuggestedStrategy: models.RequireManual,
	})
	session.Outcome = models.OutcomePartial
	return nil
}

// applyRemote persists a non-conflicting delta. Deltas carry only the
// remotely-changed fields, so for an existing record they overlay the
// current payload instead of replacing it.
func (e *syncEngine) applyRemote(ctx context.Context, local models.Record, delta models.RemoteDelta, exists bool) error {
	if exists {
		merged, err := mergeRemote(local.Payload, delta.Payload)
		if err != nil {
			return err
		}
		delta.Payload = merged
	}
	return e.records.ApplyRemote(ctx, delta)
}

// parkConflict holds a conflict for a user decision and surfaces it through
// the notification sink.
func (e *syncEngine) parkConflict(conflict models.Conflict) {
	e.mu.Lock()
	e.manualConflicts = append(e.manualConflicts, conflict)
	e.mu.Unlock()

	e.sink.Notify(notify.Event{
		Severity: notify.SeverityWarning,
		Message:  "sync conflict needs your decision",
		Context: map[string]any{
			"entity_type": conflict.EntityType,
			"entity_id":   conflict.ID,
			"severity":    string(conflict.Severity),
		},
	})
}

// ResolveManual applies a user decision to a parked conflict and removes it
// from the waiting list.
func (e *syncEngine) ResolveManual(ctx context.Context, entityType, entityID string, strategy models.ResolutionStrategy, manualPayload map[string]any) error {
	e.mu.Lock()
	var conflict models.Conflict
	found := false
	for _, c := range e.manualConflicts {
		if c.EntityType == entityType && c.ID == entityID {
			conflict = c
			found = true
			break
		}
	}
	e.mu.Unlock()
	if !found {
		return store.ErrRecordNotFound
	}

	switch {
	case conflict.LocalDeleted:
		if err := e.resolveLocalDeleteRace(ctx, conflict, strategy, manualPayload); err != nil {
			return err
		}
	case conflict.Remote.Deleted:
		if err := e.resolveTombstone(ctx, conflict, strategy, manualPayload); err != nil {
			return err
		}
	default:
		resolved, residual, err := e.resolver.Resolve(conflict, strategy, manualPayload)
		if err != nil {
			return err
		}
		if residual != nil {
			return ErrManualResolutionRequired
		}
		if err = e.records.ApplyResolution(ctx, resolved); err != nil {
			return err
		}
	}

	e.unparkConflict(entityType, entityID)
	return nil
}

// unparkConflict removes a parked conflict by key. The slice can shift while
// a resolution runs unlocked, so the entry is re-found here rather than
// spliced by a stale index.
func (e *syncEngine) unparkConflict(entityType, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, c := range e.manualConflicts {
		if c.EntityType == entityType && c.ID == id {
			e.manualConflicts = append(e.manualConflicts[:i], e.manualConflicts[i+1:]...)
			return
		}
	}
}

// resolveLocalDeleteRace settles the mirror-image race: the user deleted the
// record offline and the server kept editing it. Keeping the deletion is a
// no-op locally, the queued delete entry carries it to the server. Keeping
// the remote copy discards the queued deletes first, so a stale deletion
// never reaches the server, then restores the record from the remote side.
func (e *syncEngine) resolveLocalDeleteRace(ctx context.Context, conflict models.Conflict, strategy models.ResolutionStrategy, manualPayload map[string]any) error {
	switch strategy {
	case models.PreferLocal:
		return nil
	case models.PreferRemote, models.RequireManual:
		restored := conflict.Remote
		if strategy == models.RequireManual {
			if manualPayload == nil {
				return ErrManualResolutionRequired
			}
			restored.Payload = manualPayload
		}
		if err := e.queue.DiscardDeletes(ctx, conflict.ID); err != nil {
			return err
		}
		return e.records.ApplyRemote(ctx, restored)
	default:
		return fmt.Errorf("%w: %s cannot settle a deletion", ErrUnknownStrategy, strategy)
	}
}

// resolveTombstone settles a modify/delete race by user decision: accept the
// deletion, keep the local copy, or substitute an edited payload.
func (e *syncEngine) resolveTombstone(ctx context.Context, conflict models.Conflict, strategy models.ResolutionStrategy, manualPayload map[string]any) error {
	switch strategy {
	case models.PreferRemote:
		return e.records.Delete(ctx, conflict.EntityType, conflict.ID)
	case models.PreferLocal, models.RequireManual:
		payload := conflict.Local.Payload
		if strategy == models.RequireManual {
			if manualPayload == nil {
				return ErrManualResolutionRequired
			}
			payload = manualPayload
		}
		return e.records.ApplyResolution(ctx, models.Record{
			EntityType:        conflict.EntityType,
			ID:                conflict.ID,
			Payload:           payload,
			LocalVersion:      conflict.Remote.RemoteVersion,
			LastSyncedVersion: conflict.Remote.RemoteVersion,
			UpdatedAt:         time.Now().UTC(),
		})
	default:
		return fmt.Errorf("%w: %s cannot settle a deletion", ErrUnknownStrategy, strategy)
	}
}

func (e *syncEngine) setState(state EngineState) {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
}

func (e *syncEngine) noteOffline(session *models.Session) {
	session.Outcome = models.OutcomeCancelled
	session.FailureReason = "offline"

	e.mu.Lock()
	e.offlineStreak++
	suspend := e.offlineStreak >= e.opts.SuspendAfterOffline && e.state != StateSuspended
	if suspend {
		e.state = StateSuspended
	}
	e.mu.Unlock()

	if suspend {
		if err := e.meta.SetValue(context.Background(), store.MetaSuspended, "1"); err != nil {
			e.logger.Error().Err(err).Msg("persist suspended flag")
		}
		e.logger.Warn().Int("offline_cycles", e.opts.SuspendAfterOffline).Msg("sync suspended until connectivity returns")
	}
}

func (e *syncEngine) noteOnline(wasSuspended bool) {
	e.mu.Lock()
	e.offlineStreak = 0
	e.mu.Unlock()

	if wasSuspended {
		if err := e.meta.SetValue(context.Background(), store.MetaSuspended, ""); err != nil {
			e.logger.Error().Err(err).Msg("clear suspended flag")
		}
		e.logger.Info().Msg("sync resumed")
	}
}

func (e *syncEngine) advanceBackoff() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backoff.Advance()
}

func (e *syncEngine) resetBackoff() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backoff.Reset()
}
