// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package store

import (
	"context"

	"github.com/pocketplan/pocketsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository is the local record store: one row per synchronised
// entity, with a monotonic per-record version counter. Single-record writes
// are atomic (sqlite transaction per statement).
type RecordRepository interface {
	// Save upserts a record snapshot. On update the local_version counter is
	// bumped and dirty is set; on insert the record starts at version 1.
	Save(ctx context.Context, record models.Record) (models.Record, error)

	// Get loads one record. Returns ErrRecordNotFound if absent.
	Get(ctx context.Context, entityType, id string) (models.Record, error)

	// GetDirty lists every record with unpushed changes.
	GetDirty(ctx context.Context) ([]models.Record, error)

	// ApplyResolution persists a resolver output: the merged payload,
	// last_synced_version raised to the remote version, dirty cleared.
	ApplyResolution(ctx context.Context, record models.Record) error

	// ApplyRemote overwrites a record from a non-conflicting remote delta,
	// clearing dirty and aligning both version counters.
	ApplyRemote(ctx context.Context, delta models.RemoteDelta) error

	// Delete removes a record. Deleting an absent record is not an error,
	// so remote tombstones replay cleanly.
	Delete(ctx context.Context, entityType, id string) error

	// MarkSynced raises last_synced_version to the current local_version and
	// clears dirty without touching the payload. Used after the server has
	// acknowledged every queued operation for the record.
	MarkSynced(ctx context.Context, entityType, id string) error
}

// OperationLogRepository is the durable append-only log backing the
// operation queue. Entries survive process restarts and are removed only
// after the server acknowledges them.
type OperationLogRepository interface {
	// Append persists a new entry with status pending.
	Append(ctx context.Context, op models.Operation) error

	// NextPending returns up to limit pending entries in enqueue order,
	// skipping any entity whose oldest entry is not pending so that
	// per-entity FIFO order is never violated.
	NextPending(ctx context.Context, limit int) ([]models.Operation, error)

	// ListByStatus returns entries filtered by status and, when entityID is
	// non-empty, by entity, ordered by enqueue sequence.
	ListByStatus(ctx context.Context, status models.OpStatus, entityID string) ([]models.Operation, error)

	// SetStatus transitions a single entry. Returns ErrOperationNotFound if
	// the id is unknown.
	SetStatus(ctx context.Context, id string, status models.OpStatus, failureReason string) error

	// IncrementAttempts bumps the attempt counter and returns its new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// Remove deletes acknowledged entries.
	Remove(ctx context.Context, ids []string) error

	// CountByStatus reports how many entries currently hold each status.
	CountByStatus(ctx context.Context) (map[models.OpStatus]int, error)
}

// MetaRepository stores small sync-engine state that must survive restarts:
// the pull cursor and the suspension marker.
type MetaRepository interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}

// Meta keys used by the sync engine.
const (
	MetaPullCursor = "pull_cursor"
	MetaSuspended  = "suspended"
)
