// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package models

import "time"

// Record is the local snapshot of a synchronised entity. It is owned by the
// local store and mutated only through the operation queue's apply step or a
// conflict resolution.
type Record struct {
	// EntityType names the kind of entity ("account", "budget", "goal", ...).
	EntityType string `json:"entity_type"`

	// ID is the client-assigned identifier, stable across devices.
	ID string `json:"id"`

	// Payload holds the entity fields as a flat JSON object.
	Payload map[string]any `json:"payload"`

	// LocalVersion is a monotonic per-record counter bumped on every local
	// mutation.
	LocalVersion int64 `json:"local_version"`

	// LastSyncedVersion is the remote version this record was last
	// reconciled against.
	LastSyncedVersion int64 `json:"last_synced_version"`

	UpdatedAt time.Time `json:"updated_at"`

	// Dirty marks unpushed local changes.
	Dirty bool `json:"dirty"`
}

// RemoteDelta is a server-side change received during a pull. It is read-only
// and is never persisted as-is, only merged into a Record.
type RemoteDelta struct {
	EntityType      string         `json:"entity_type"`
	ID              string         `json:"id"`
	Payload         map[string]any `json:"payload"`
	RemoteVersion   int64          `json:"remote_version"`
	RemoteUpdatedAt time.Time      `json:"remote_updated_at"`

	// Deleted marks a tombstone: the entity was removed on the server and
	// Payload is empty.
	Deleted bool `json:"deleted,omitempty"`
}
