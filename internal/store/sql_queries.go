// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package store

const (
	upsertRecord = `
		INSERT INTO records (
			entity_type,
			id,
			payload,
			local_version,
			last_synced_version,
			updated_at,
			dirty
		) VALUES ($1, $2, $3, 1, 0, $4, TRUE)
		ON CONFLICT (entity_type, id) DO UPDATE SET
			payload       = excluded.payload,
			local_version = records.local_version + 1,
			updated_at    = excluded.updated_at,
			dirty         = TRUE;`

	getRecord = `
		SELECT
			entity_type,
			id,
			payload,
			local_version,
			last_synced_version,
			updated_at,
			dirty
		FROM records
		WHERE entity_type = $1 AND id = $2;`

	getDirtyRecords = `
		SELECT
			entity_type,
			id,
			payload,
			local_version,
			last_synced_version,
			updated_at,
			dirty
		FROM records
		WHERE dirty = TRUE;`

	applyResolution = `
		UPDATE records SET
			payload             = $1,
			local_version       = $2,
			last_synced_version = $3,
			updated_at          = $4,
			dirty               = FALSE
		WHERE entity_type = $5 AND id = $6;`

	applyRemoteDelta = `
		INSERT INTO records (
			entity_type,
			id,
			payload,
			local_version,
			last_synced_version,
			updated_at,
			dirty
		) VALUES ($1, $2, $3, $4, $4, $5, FALSE)
		ON CONFLICT (entity_type, id) DO UPDATE SET
			payload             = excluded.payload,
			local_version       = excluded.local_version,
			last_synced_version = excluded.last_synced_version,
			updated_at          = excluded.updated_at,
			dirty               = FALSE
		WHERE records.last_synced_version < excluded.last_synced_version;`

	deleteRecord = `
		DELETE FROM records
		WHERE entity_type = $1 AND id = $2;`

	markRecordSynced = `
		UPDATE records SET
			last_synced_version = local_version,
			dirty               = FALSE
		WHERE entity_type = $1 AND id = $2;`

	appendOperation = `
		INSERT INTO operation_log (
			id,
			entity_type,
			entity_id,
			kind,
			payload_delta,
			enqueued_at,
			attempts,
			priority,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8);`

	// nextPendingOperations respects per-entity FIFO: an entity whose oldest
	// live entry is not pending contributes no entries at all, and within an
	// entity only the contiguous pending head is eligible.
	nextPendingOperations = `
		SELECT
			id,
			entity_type,
			entity_id,
			kind,
			payload_delta,
			enqueued_at,
			attempts,
			priority,
			status,
			failure_reason
		FROM operation_log o
		WHERE o.status = 'pending'
		  AND NOT EXISTS (
			SELECT 1 FROM operation_log prior
			WHERE prior.entity_id = o.entity_id
			  AND prior.seq < o.seq
			  AND prior.status != 'pending'
			  AND prior.status != 'done'
		  )
		ORDER BY o.seq
		LIMIT $1;`

	getOperationStatus = `
		SELECT status FROM operation_log WHERE id = $1;`

	setOperationStatus = `
		UPDATE operation_log SET
			status         = $1,
			failure_reason = $2
		WHERE id = $3 AND status = $4;`

	incrementOperationAttempts = `
		UPDATE operation_log
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts;`

	getMetaValue = `
		SELECT value FROM sync_meta WHERE key = $1;`

	setMetaValue = `
		INSERT INTO sync_meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`
)
