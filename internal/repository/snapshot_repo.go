package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/model"
)

// SnapshotRepository loads and stores the projects snapshot blob: the raw
// attribute rows last fetched from the projects table, serialized as one
// JSON array.
type SnapshotRepository struct {
	store  BlobStore
	key    string
	logger *zap.Logger
}

func NewSnapshotRepository(store BlobStore, key string, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{store: store, key: key, logger: logger}
}

// Load reads the snapshot. A missing or malformed blob is logged and
// returned as empty, never as an error to the caller.
func (r *SnapshotRepository) Load(ctx context.Context) []model.Attributes {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Error("failed to load projects snapshot", zap.Error(err))
		}
		return nil
	}

	var rows []model.Attributes
	if err := json.Unmarshal(data, &rows); err != nil {
		r.logger.Error("malformed projects snapshot, treating as empty", zap.Error(err))
		return nil
	}
	return rows
}

// Save writes the snapshot wholesale.
func (r *SnapshotRepository) Save(ctx context.Context, rows []model.Attributes) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
