package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketplan/pocketsync/internal/config"
	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/internal/notify"
	"github.com/pocketplan/pocketsync/internal/store"
	"github.com/pocketplan/pocketsync/models"
)

func newTestStorages(t *testing.T) *store.Storages {
	t.Helper()

	storages, err := store.NewStorages(config.Storage{DB: config.DB{DSN: ":memory:"}}, logger.Nop())
	require.NoError(t, err)

	return storages
}

func newTestQueue(t *testing.T, ceiling int) (Queue, *store.Storages, *notify.MemorySink) {
	t.Helper()

	storages := newTestStorages(t)
	sink := notify.NewMemorySink()
	queue := NewQueue(storages.OperationLog, storages.Records, sink, ceiling, logger.Nop())

	return queue, storages, sink
}

func TestQueueEnqueueValidation(t *testing.T) {
	queue, _, _ := newTestQueue(t, 5)

	tests := []struct {
		name string
		op   models.Operation
	}{
		{name: "missing entity type", op: models.Operation{EntityID: "acc-1", Kind: models.OpUpdate}},
		{name: "missing entity id", op: models.Operation{EntityType: "account", Kind: models.OpUpdate}},
		{name: "unknown kind", op: models.Operation{EntityType: "account", EntityID: "acc-1", Kind: "rename"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queue.Enqueue(context.Background(), tt.op)
			assert.ErrorIs(t, err, ErrInvalidOperation)
		})
	}
}

func TestQueueEnqueueAppliesDeltaAndMarksDirty(t *testing.T) {
	queue, storages, _ := newTestQueue(t, 5)
	ctx := context.Background()

	op, err := queue.Enqueue(ctx, models.Operation{
		EntityType:   "account",
		EntityID:     "acc-1",
		Kind:         models.OpCreate,
		PayloadDelta: map[string]any{"balance": 100.0, "currency": "EUR"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, op.ID)
	assert.Equal(t, models.OpPending, op.Status)
	assert.Equal(t, models.PriorityNormal, op.Priority)

	record, err := storages.Records.Get(ctx, "account", "acc-1")
	require.NoError(t, err)
	assert.True(t, record.Dirty)
	assert.Equal(t, "EUR", record.Payload["currency"])

	// A second update merges into the snapshot, keeping untouched fields.
	_, err = queue.Enqueue(ctx, models.Operation{
		EntityType:   "account",
		EntityID:     "acc-1",
		Kind:         models.OpUpdate,
		PayloadDelta: map[string]any{"balance": 250.0},
	})
	require.NoError(t, err)

	record, err = storages.Records.Get(ctx, "account", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 250.0, record.Payload["balance"])
	assert.Equal(t, "EUR", record.Payload["currency"])
}

func TestQueueNextBatchSkipsDeferredTypes(t *testing.T) {
	queue, _, _ := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "tag", EntityID: "tag-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"label": "food"},
	})
	require.NoError(t, err)
	opAccount, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"balance": 1.0},
	})
	require.NoError(t, err)

	batch, err := queue.NextBatch(ctx, 10, 1<<20, []string{"tag"})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, opAccount.ID, batch[0].ID)
	assert.Equal(t, models.OpInFlight, batch[0].Status)
}

func TestQueueNextBatchRespectsByteCap(t *testing.T) {
	queue, _, _ := newTestQueue(t, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := queue.Enqueue(ctx, models.Operation{
			EntityType: "transaction", EntityID: string(rune('a' + i)), Kind: models.OpCreate,
			PayloadDelta: map[string]any{"amount": float64(i)},
		})
		require.NoError(t, err)
	}

	// A tiny cap never blocks the first entry.
	batch, err := queue.NextBatch(ctx, 10, 1, nil)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestQueueAcknowledgeClearsDirtyWhenDrained(t *testing.T) {
	queue, storages, _ := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "goal", EntityID: "g-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"goal_target": 5000.0},
	})
	require.NoError(t, err)

	batch, err := queue.NextBatch(ctx, 10, 1<<20, nil)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	require.NoError(t, queue.Acknowledge(ctx, []string{batch[0].ID}))

	record, err := storages.Records.Get(ctx, "goal", "g-1")
	require.NoError(t, err)
	assert.False(t, record.Dirty)
	assert.Equal(t, record.LocalVersion, record.LastSyncedVersion)

	counts, err := queue.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts[models.OpInFlight])
	assert.Zero(t, counts[models.OpPending])
}

func TestQueueAcknowledgeKeepsDirtyWhileEntriesRemain(t *testing.T) {
	queue, storages, _ := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "goal", EntityID: "g-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"goal_target": 5000.0},
	})
	require.NoError(t, err)

	batch, err := queue.NextBatch(ctx, 10, 1<<20, nil)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	// A second edit lands while the first is in flight.
	_, err = queue.Enqueue(ctx, models.Operation{
		EntityType: "goal", EntityID: "g-1", Kind: models.OpUpdate,
		PayloadDelta: map[string]any{"goal_target": 6000.0},
	})
	require.NoError(t, err)

	require.NoError(t, queue.Acknowledge(ctx, []string{batch[0].ID}))

	record, err := storages.Records.Get(ctx, "goal", "g-1")
	require.NoError(t, err)
	assert.True(t, record.Dirty)
}

func TestQueueMarkFailedNotifies(t *testing.T) {
	queue, _, sink := newTestQueue(t, 5)
	ctx := context.Background()

	op, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpDelete,
	})
	require.NoError(t, err)

	batch, err := queue.NextBatch(ctx, 10, 1<<20, nil)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	require.NoError(t, queue.MarkFailed(ctx, op.ID, "account already closed"))

	counts, err := queue.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.OpFailed])

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.SeverityCritical, events[0].Severity)
	assert.Equal(t, op.ID, events[0].Context["operation_id"])
}

func TestQueueRequeue(t *testing.T) {
	queue, _, sink := newTestQueue(t, 2)
	ctx := context.Background()

	op, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"balance": 1.0},
	})
	require.NoError(t, err)

	_, err = queue.Requeue(ctx, op.ID, "connection reset")
	assert.ErrorIs(t, err, ErrNotInFlight)

	batch, err := queue.NextBatch(ctx, 10, 1<<20, nil)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	requeued, err := queue.Requeue(ctx, op.ID, "connection reset")
	require.NoError(t, err)
	assert.True(t, requeued)

	// Second transport failure hits the ceiling of 2 and fails for good.
	batch, err = queue.NextBatch(ctx, 10, 1<<20, nil)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	requeued, err = queue.Requeue(ctx, op.ID, "connection reset")
	require.NoError(t, err)
	assert.False(t, requeued)

	counts, err := queue.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.OpFailed])
	assert.NotEmpty(t, sink.Events())
}

func TestQueuePendingDeltaFoldsInOrder(t *testing.T) {
	queue, _, _ := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"balance": 10.0, "currency": "EUR"},
	})
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpUpdate,
		PayloadDelta: map[string]any{"balance": 20.0},
	})
	require.NoError(t, err)

	delta, err := queue.PendingDelta(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, delta["balance"])
	assert.Equal(t, "EUR", delta["currency"])
}

func TestQueueEnqueueDeleteRemovesLocalRecord(t *testing.T) {
	queue, storages, _ := newTestQueue(t, 3)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.Operation{
		EntityType:   "account",
		EntityID:     "acc-1",
		Kind:         models.OpCreate,
		PayloadDelta: map[string]any{"balance": 100.0},
	})
	require.NoError(t, err)

	_, err = queue.Enqueue(ctx, models.Operation{
		EntityType: "account",
		EntityID:   "acc-1",
		Kind:       models.OpDelete,
	})
	require.NoError(t, err)

	// The snapshot is gone right away; the queued entry carries the
	// removal to the server.
	_, err = storages.Records.Get(ctx, "account", "acc-1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	counts, err := queue.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.OpPending])
}

func TestQueueRecoverInFlightRestoresPending(t *testing.T) {
	queue, _, _ := newTestQueue(t, 5)
	ctx := context.Background()

	op, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"balance": 1.0},
	})
	require.NoError(t, err)

	batch, err := queue.NextBatch(ctx, 10, 1<<20, nil)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	// The process dies between push and acknowledgement; the entry is
	// stranded in flight.
	recovered, err := queue.RecoverInFlight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	counts, err := queue.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.OpPending])
	assert.Zero(t, counts[models.OpInFlight])

	// The recovered entry is pushable again.
	batch, err = queue.NextBatch(ctx, 10, 1<<20, nil)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, op.ID, batch[0].ID)

	recovered, err = queue.RecoverInFlight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)
}

func TestQueuePendingDeleteLookupAndDiscard(t *testing.T) {
	queue, _, _ := newTestQueue(t, 5)
	ctx := context.Background()

	_, err := queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpCreate,
		PayloadDelta: map[string]any{"balance": 1.0},
	})
	require.NoError(t, err)

	got, err := queue.HasPendingDelete(ctx, "acc-1")
	require.NoError(t, err)
	assert.False(t, got)

	_, err = queue.Enqueue(ctx, models.Operation{
		EntityType: "account", EntityID: "acc-1", Kind: models.OpDelete,
	})
	require.NoError(t, err)

	got, err = queue.HasPendingDelete(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, got)

	require.NoError(t, queue.DiscardDeletes(ctx, "acc-1"))

	got, err = queue.HasPendingDelete(ctx, "acc-1")
	require.NoError(t, err)
	assert.False(t, got)

	// Only the delete entry goes; the earlier edit is still queued.
	counts, err := queue.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.OpPending])
}
