package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/models"
)

type recordRepository struct {
	*DB
	logger *logger.Logger
}

func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *recordRepository) Save(ctx context.Context, record models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return models.Record{}, fmt.Errorf("encode record payload: %w", err)
	}

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	_, err = r.DB.ExecContext(ctx, upsertRecord,
		record.EntityType,
		record.ID,
		string(payload),
		record.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Save").
			Str("entity_type", record.EntityType).
			Str("id", record.ID).
			Msg("failed to execute upsert for record")
		return models.Record{}, fmt.Errorf("%w: save record (id=%s): %v", ErrStorage, record.ID, err)
	}

	return r.Get(ctx, record.EntityType, record.ID)
}

func (r *recordRepository) Get(ctx context.Context, entityType, id string) (models.Record, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, getRecord, entityType, id)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, ErrRecordNotFound
		}
		log.Err(err).
			Str("func", "recordRepository.Get").
			Str("entity_type", entityType).
			Str("id", id).
			Msg("failed to scan record row")
		return models.Record{}, fmt.Errorf("%w: get record (id=%s): %v", ErrStorage, id, err)
	}

	return record, nil
}

func (r *recordRepository) GetDirty(ctx context.Context) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getDirtyRecords)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetDirty").
			Msg("failed to query dirty records")
		return nil, fmt.Errorf("%w: query dirty records: %v", ErrStorage, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan dirty record: %v", ErrStorage, err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate dirty records: %v", ErrStorage, err)
	}

	return records, nil
}

func (r *recordRepository) ApplyResolution(ctx context.Context, record models.Record) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("encode resolved payload: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, applyResolution,
		string(payload),
		record.LocalVersion,
		record.LastSyncedVersion,
		record.UpdatedAt,
		record.EntityType,
		record.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyResolution").
			Str("id", record.ID).
			Msg("failed to persist conflict resolution")
		return fmt.Errorf("%w: apply resolution (id=%s): %v", ErrStorage, record.ID, err)
	}

	return requireRowAffected(res, ErrRecordNotFound)
}

func (r *recordRepository) ApplyRemote(ctx context.Context, delta models.RemoteDelta) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(delta.Payload)
	if err != nil {
		return fmt.Errorf("encode remote payload: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, applyRemoteDelta,
		delta.EntityType,
		delta.ID,
		string(payload),
		delta.RemoteVersion,
		delta.RemoteUpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyRemote").
			Str("id", delta.ID).
			Msg("failed to apply remote delta")
		return fmt.Errorf("%w: apply remote delta (id=%s): %v", ErrStorage, delta.ID, err)
	}

	// The upsert refuses to move last_synced_version backwards, so a
	// replayed delta surfaces as a stale write instead of clobbering state.
	return requireRowAffected(res, ErrRecordStale)
}

func (r *recordRepository) Delete(ctx context.Context, entityType, id string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, deleteRecord, entityType, id)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Delete").
			Str("id", id).
			Msg("failed to delete record")
		return fmt.Errorf("%w: delete record (id=%s): %v", ErrStorage, id, err)
	}

	return nil
}

func (r *recordRepository) MarkSynced(ctx context.Context, entityType, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.DB.ExecContext(ctx, markRecordSynced, entityType, id)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.MarkSynced").
			Str("id", id).
			Msg("failed to mark record synced")
		return fmt.Errorf("%w: mark record synced (id=%s): %v", ErrStorage, id, err)
	}

	return requireRowAffected(res, ErrRecordNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var record models.Record
	var payload string

	err := row.Scan(
		&record.EntityType,
		&record.ID,
		&payload,
		&record.LocalVersion,
		&record.LastSyncedVersion,
		&record.UpdatedAt,
		&record.Dirty,
	)
	if err != nil {
		return models.Record{}, err
	}

	if err = json.Unmarshal([]byte(payload), &record.Payload); err != nil {
		return models.Record{}, fmt.Errorf("decode record payload: %w", err)
	}

	return record, nil
}

func requireRowAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ErrStorage, err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
