// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/models"
)

type operationLogRepository struct {
	*DB
	logger *logger.Logger
}

func NewOperationLogRepository(db *DB, logger *logger.Logger) OperationLogRepository {
	return &operationLogRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *operationLogRepository) Append(ctx context.Context, op models.Operation) error {
	log := logger.FromContext(ctx)

	delta, err := json.Marshal(op.PayloadDelta)
	if err != nil {
		return fmt.Errorf("encode payload delta: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, appendOperation,
		op.ID,
		op.EntityType,
		op.EntityID,
		string(op.Kind),
		string(delta),
		op.EnqueuedAt,
		string(op.Priority),
		string(op.Status),
	)
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.Append").
			Str("op_id", op.ID).
			Str("entity_id", op.EntityID).
			Msg("failed to append operation to durable log")
		return fmt.Errorf("%w: append operation (id=%s): %v", ErrStorage, op.ID, err)
	}

	return nil
}

func (r *operationLogRepository) NextPending(ctx context.Context, limit int) ([]models.Operation, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, nextPendingOperations, limit)
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.NextPending").
			Msg("failed to query pending operations")
		return nil, fmt.Errorf("%w: query pending operations: %v", ErrStorage, err)
	}
	defer rows.Close()

	return collectOperations(rows)
}

func (r *operationLogRepository) ListByStatus(ctx context.Context, status models.OpStatus, entityID string) ([]models.Operation, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(
		"id", "entity_type", "entity_id", "kind", "payload_delta",
		"enqueued_at", "attempts", "priority", "status", "failure_reason",
	).
		From("operation_log").
		Where(sq.Eq{"status": string(status)}).
		OrderBy("seq")

	if entityID != "" {
		builder = builder.Where(sq.Eq{"entity_id": entityID})
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.ListByStatus").
			Str("status", string(status)).
			Msg("failed to query operations by status")
		return nil, fmt.Errorf("%w: query operations by status: %v", ErrStorage, err)
	}
	defer rows.Close()

	return collectOperations(rows)
}

func (r *operationLogRepository) SetStatus(ctx context.Context, id string, status models.OpStatus, failureReason string) error {
	log := logger.FromContext(ctx)

	var current string
	err := r.DB.QueryRowContext(ctx, getOperationStatus, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOperationNotFound
		}
		return fmt.Errorf("%w: read operation status (id=%s): %v", ErrStorage, id, err)
	}

	if !models.CanTransition(models.OpStatus(current), status) {
		return fmt.Errorf("%w: %s to %s (id=%s)", ErrInvalidTransition, current, status, id)
	}

	// The current status reappears in the predicate so a concurrent
	// transition between the read and the write loses cleanly.
	res, err := r.DB.ExecContext(ctx, setOperationStatus, string(status), failureReason, id, current)
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.SetStatus").
			Str("op_id", id).
			Str("status", string(status)).
			Msg("failed to transition operation status")
		return fmt.Errorf("%w: set operation status (id=%s): %v", ErrStorage, id, err)
	}

	return requireRowAffected(res, fmt.Errorf("%w: concurrent transition (id=%s)", ErrInvalidTransition, id))
}

func (r *operationLogRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	log := logger.FromContext(ctx)

	var attempts int
	err := r.DB.QueryRowContext(ctx, incrementOperationAttempts, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrOperationNotFound
		}
		log.Err(err).
			Str("func", "operationLogRepository.IncrementAttempts").
			Str("op_id", id).
			Msg("failed to increment operation attempts")
		return 0, fmt.Errorf("%w: increment attempts (id=%s): %v", ErrStorage, id, err)
	}

	return attempts, nil
}

func (r *operationLogRepository) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("operation_log").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.Remove").
			Int("count", len(ids)).
			Msg("failed to remove acknowledged operations")
		return fmt.Errorf("%w: remove operations: %v", ErrStorage, err)
	}

	return nil
}

func (r *operationLogRepository) CountByStatus(ctx context.Context) (map[models.OpStatus]int, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("status", "COUNT(*)").
		From("operation_log").
		GroupBy("status").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "operationLogRepository.CountByStatus").
			Msg("failed to count operations by status")
		return nil, fmt.Errorf("%w: count operations: %v", ErrStorage, err)
	}
	defer rows.Close()

	counts := make(map[models.OpStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: scan status count: %v", ErrStorage, err)
		}
		counts[models.OpStatus(status)] = count
	}

	return counts, rows.Err()
}

func collectOperations(rows *sql.Rows) ([]models.Operation, error) {
	var ops []models.Operation
	for rows.Next() {
		var op models.Operation
		var kind, priority, status, delta string

		err := rows.Scan(
			&op.ID,
			&op.EntityType,
			&op.EntityID,
			&kind,
			&delta,
			&op.EnqueuedAt,
			&op.Attempts,
			&priority,
			&status,
			&op.FailureReason,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan operation row: %v", ErrStorage, err)
		}

		op.Kind = models.OpKind(kind)
		op.Priority = models.OpPriority(priority)
		op.Status = models.OpStatus(status)
		if err = json.Unmarshal([]byte(delta), &op.PayloadDelta); err != nil {
			return nil, fmt.Errorf("decode payload delta: %w", err)
		}

		ops = append(ops, op)
	}

	return ops, rows.Err()
}
