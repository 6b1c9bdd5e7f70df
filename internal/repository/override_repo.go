package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/model"
)

// OverrideRepository loads and stores the status-overrides blob: one JSON
// object keyed by project ID, written wholesale on every mutation.
type OverrideRepository struct {
	store  BlobStore
	key    string
	logger *zap.Logger
}

func NewOverrideRepository(store BlobStore, key string, logger *zap.Logger) *OverrideRepository {
	return &OverrideRepository{store: store, key: key, logger: logger}
}

// Load reads the override map. A missing blob yields an empty map; a
// malformed one is logged and also treated as empty.
func (r *OverrideRepository) Load(ctx context.Context) model.OverrideMap {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Error("failed to load status overrides", zap.Error(err))
		}
		return model.OverrideMap{}
	}

	overrides := model.OverrideMap{}
	if err := json.Unmarshal(data, &overrides); err != nil {
		r.logger.Error("malformed status overrides, treating as empty", zap.Error(err))
		return model.OverrideMap{}
	}
	return overrides
}

// Save writes the override map wholesale.
func (r *OverrideRepository) Save(ctx context.Context, overrides model.OverrideMap) error {
	data, err := json.MarshalIndent(overrides, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal overrides: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("write overrides: %w", err)
	}
	return nil
}
