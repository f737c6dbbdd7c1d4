package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketplan/pocketsync/internal/logger"
)

type metaRepository struct {
	*DB
	logger *logger.Logger
}

func NewMetaRepository(db *DB, logger *logger.Logger) MetaRepository {
	return &metaRepository{
		DB:     db,
		logger: logger,
	}
}

// GetValue returns the stored value for key, or an empty string when the key
// has never been written.
func (r *metaRepository) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, getMetaValue, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%w: get meta value (key=%s): %v", ErrStorage, key, err)
	}

	return value, nil
}

func (r *metaRepository) SetValue(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	if _, err := r.DB.ExecContext(ctx, setMetaValue, key, value); err != nil {
		log.Err(err).
			Str("func", "metaRepository.SetValue").
			Str("key", key).
			Msg("failed to persist meta value")
		return fmt.Errorf("%w: set meta value (key=%s): %v", ErrStorage, key, err)
	}

	return nil
}
