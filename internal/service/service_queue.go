// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/internal/notify"
	"github.com/pocketplan/pocketsync/internal/store"
	"github.com/pocketplan/pocketsync/models"
)

type queueService struct {
	oplog   store.OperationLogRepository
	records store.RecordRepository
	sink    notify.Sink
	ceiling int
	logger  *logger.Logger
}

// NewQueue constructs the operation queue. retryCeiling is the number of
// transport-failure attempts after which an entry is failed instead of
// requeued.
func NewQueue(oplog store.OperationLogRepository, records store.RecordRepository, sink notify.Sink, retryCeiling int, log *logger.Logger) Queue {
	if retryCeiling <= 0 {
		retryCeiling = 5
	}
	return &queueService{
		oplog:   oplog,
		records: records,
		sink:    sink,
		ceiling: retryCeiling,
		logger:  log,
	}
}

func (q *queueService) Enqueue(ctx context.Context, op models.Operation) (models.Operation, error) {
	if op.EntityType == "" || op.EntityID == "" {
		return models.Operation{}, fmt.Errorf("%w: entity type and id are required", ErrInvalidOperation)
	}
	if !models.ValidKind(op.Kind) {
		return models.Operation{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, op.Kind)
	}

	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	if op.Priority == "" {
		op.Priority = models.PriorityNormal
	}
	op.EnqueuedAt = time.Now().UTC()
	op.Attempts = 0
	op.Status = models.OpPending

	// The apply step: the record mutation and the log entry are written
	// together, so a dirty record always has a live queue entry. Deletes
	// remove the local snapshot right away; the queued entry carries the
	// removal to the server.
	if op.Kind == models.OpDelete {
		if err := q.records.Delete(ctx, op.EntityType, op.EntityID); err != nil {
			return models.Operation{}, err
		}
	} else {
		if err := q.applyToRecord(ctx, op); err != nil {
			return models.Operation{}, err
		}
	}

	if err := q.oplog.Append(ctx, op); err != nil {
		return models.Operation{}, err
	}

	q.logger.Debug().
		Str("op_id", op.ID).
		Str("entity_id", op.EntityID).
		Str("kind", string(op.Kind)).
		Msg("operation enqueued")

	return op, nil
}

func (q *queueService) applyToRecord(ctx context.Context, op models.Operation) error {
	record, err := q.records.Get(ctx, op.EntityType, op.EntityID)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	payload := make(map[string]any, len(record.Payload)+len(op.PayloadDelta))
	for k, v := range record.Payload {
		payload[k] = v
	}
	for k, v := range op.PayloadDelta {
		payload[k] = v
	}

	_, err = q.records.Save(ctx, models.Record{
		EntityType: op.EntityType,
		ID:         op.EntityID,
		Payload:    payload,
		UpdatedAt:  op.EnqueuedAt,
	})
	return err
}

func (q *queueService) NextBatch(ctx context.Context, maxOps, maxBytes int, skipEntityTypes []string) ([]models.Operation, error) {
	if maxOps <= 0 {
		return nil, nil
	}

	skip := make(map[string]bool, len(skipEntityTypes))
	for _, t := range skipEntityTypes {
		skip[t] = true
	}

	// Over-fetch so deferred entity types do not shrink the batch.
	candidates, err := q.oplog.NextPending(ctx, maxOps*2+len(skipEntityTypes)*maxOps)
	if err != nil {
		return nil, err
	}

	var batch []models.Operation
	var totalBytes int
	for _, op := range candidates {
		if skip[op.EntityType] {
			continue
		}

		encoded, err := json.Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("encode operation %s: %w", op.ID, err)
		}
		if len(batch) > 0 && (totalBytes+len(encoded) > maxBytes || len(batch) >= maxOps) {
			break
		}

		if err = q.oplog.SetStatus(ctx, op.ID, models.OpInFlight, ""); err != nil {
			return nil, err
		}
		op.Status = models.OpInFlight
		batch = append(batch, op)
		totalBytes += len(encoded)

		if len(batch) >= maxOps {
			break
		}
	}

	return batch, nil
}

func (q *queueService) Acknowledge(ctx context.Context, ids []string) error {
	inFlight, err := q.oplog.ListByStatus(ctx, models.OpInFlight, "")
	if err != nil {
		return err
	}
	byID := make(map[string]models.Operation, len(inFlight))
	for _, op := range inFlight {
		byID[op.ID] = op
	}

	entities := make(map[[2]string]bool)
	for _, id := range ids {
		if op, ok := byID[id]; ok {
			entities[[2]string{op.EntityType, op.EntityID}] = true
		}
		if err = q.oplog.SetStatus(ctx, id, models.OpDone, ""); err != nil {
			return err
		}
	}

	if err := q.oplog.Remove(ctx, ids); err != nil {
		return err
	}

	// Clear dirty on records whose queue is fully drained.
	for key := range entities {
		entityType, entityID := key[0], key[1]
		remaining, err := q.liveOperations(ctx, entityID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			continue
		}
		if err = q.records.MarkSynced(ctx, entityType, entityID); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
	}

	return nil
}

func (q *queueService) MarkFailed(ctx context.Context, id, reason string) error {
	if err := q.oplog.SetStatus(ctx, id, models.OpFailed, reason); err != nil {
		return err
	}

	q.logger.Warn().
		Str("op_id", id).
		Str("reason", reason).
		Msg("operation permanently failed")

	q.sink.Notify(notify.Event{
		Severity: notify.SeverityCritical,
		Message:  "sync operation needs attention",
		Context:  map[string]any{"operation_id": id, "reason": reason},
	})

	return nil
}

func (q *queueService) Requeue(ctx context.Context, id, reason string) (bool, error) {
	inFlight, err := q.oplog.ListByStatus(ctx, models.OpInFlight, "")
	if err != nil {
		return false, err
	}
	found := false
	for _, op := range inFlight {
		if op.ID == id {
			found = true
			break
		}
	}
	if !found {
		return false, fmt.Errorf("%w: %s", ErrNotInFlight, id)
	}

	attempts, err := q.oplog.IncrementAttempts(ctx, id)
	if err != nil {
		return false, err
	}

	if attempts >= q.ceiling {
		return false, q.MarkFailed(ctx, id, fmt.Sprintf("retry ceiling reached after %d attempts: %s", attempts, reason))
	}

	if err = q.oplog.SetStatus(ctx, id, models.OpPending, ""); err != nil {
		return false, err
	}

	q.logger.Debug().
		Str("op_id", id).
		Int("attempts", attempts).
		Str("reason", reason).
		Msg("operation requeued after transport failure")

	return true, nil
}

// RecoverInFlight returns wedged in-flight entries to pending. An entry can
// be left in flight by a crash between push and acknowledgement, or by a
// push response that mentions it in neither accepted nor rejected; either
// way the next cycle must retry it, the push being idempotent per id.
func (q *queueService) RecoverInFlight(ctx context.Context) (int, error) {
	stuck, err := q.oplog.ListByStatus(ctx, models.OpInFlight, "")
	if err != nil {
		return 0, err
	}

	for _, op := range stuck {
		if err = q.oplog.SetStatus(ctx, op.ID, models.OpPending, ""); err != nil {
			return 0, err
		}
	}

	if len(stuck) > 0 {
		q.logger.Warn().
			Int("count", len(stuck)).
			Msg("recovered operations left in flight by an interrupted push")
	}

	return len(stuck), nil
}

func (q *queueService) PendingDelta(ctx context.Context, entityID string) (map[string]any, error) {
	ops, err := q.liveOperations(ctx, entityID)
	if err != nil {
		return nil, err
	}

	delta := make(map[string]any)
	for _, op := range ops {
		for k, v := range op.PayloadDelta {
			delta[k] = v
		}
	}

	return delta, nil
}

func (q *queueService) HasPendingDelete(ctx context.Context, entityID string) (bool, error) {
	ops, err := q.liveOperations(ctx, entityID)
	if err != nil {
		return false, err
	}
	for _, op := range ops {
		if op.Kind == models.OpDelete {
			return true, nil
		}
	}
	return false, nil
}

func (q *queueService) DiscardDeletes(ctx context.Context, entityID string) error {
	ops, err := q.liveOperations(ctx, entityID)
	if err != nil {
		return err
	}

	var ids []string
	for _, op := range ops {
		if op.Kind == models.OpDelete {
			ids = append(ids, op.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := q.oplog.Remove(ctx, ids); err != nil {
		return err
	}

	q.logger.Debug().
		Str("entity_id", entityID).
		Int("count", len(ids)).
		Msg("queued deletes discarded after conflict resolution")

	return nil
}

// liveOperations lists an entity's entries that still await acknowledgement,
// oldest first. Only the head of an entity's queue can be in flight or
// failed, so those statuses come before the pending tail.
func (q *queueService) liveOperations(ctx context.Context, entityID string) ([]models.Operation, error) {
	var live []models.Operation
	for _, status := range []models.OpStatus{models.OpInFlight, models.OpFailed, models.OpPending} {
		ops, err := q.oplog.ListByStatus(ctx, status, entityID)
		if err != nil {
			return nil, err
		}
		live = append(live, ops...)
	}
	return live, nil
}

func (q *queueService) Counts(ctx context.Context) (map[models.OpStatus]int, error) {
	return q.oplog.CountByStatus(ctx)
}
