package database

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/providers"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/repositories"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/observability"
)

const examinationTypesCacheKey = "examination_types:all"

// CachedExaminationTypeAdapter wraps an ExaminationTypeRepository with caching.
// The directory changes rarely; the slot pool is never cached.
type CachedExaminationTypeAdapter struct {
	adapter    repositories.ExaminationTypeRepository
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// NewCachedExaminationTypeAdapter creates a new cached examination type adapter
func NewCachedExaminationTypeAdapter(
	adapter repositories.ExaminationTypeRepository,
	cache providers.CacheProvider,
	ttlSeconds int,
	metrics *observability.Metrics,
) *CachedExaminationTypeAdapter {
	return &CachedExaminationTypeAdapter{
		adapter:    adapter,
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

// List returns the directory from cache, falling back to the wrapped repository
func (a *CachedExaminationTypeAdapter) List(ctx context.Context) ([]*entities.ExaminationType, error) {
	if cached, err := a.cache.Get(ctx, examinationTypesCacheKey); err == nil {
		var types []*entities.ExaminationType
		decodeErr := json.Unmarshal(cached, &types)
		if decodeErr == nil {
			observability.RecordCacheLookup(ctx, a.metrics, "examination_types", true)
			return types, nil
		}
		log.Warn().Err(decodeErr).Msg("Discarding unreadable cached examination types")
	}
	observability.RecordCacheLookup(ctx, a.metrics, "examination_types", false)

	types, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.store(ctx, types); err != nil {
		log.Warn().Err(err).Msg("Failed to cache examination types")
	}

	return types, nil
}

// Warm reloads the directory from the wrapped repository into the cache
func (a *CachedExaminationTypeAdapter) Warm(ctx context.Context) error {
	types, err := a.adapter.List(ctx)
	if err != nil {
		return err
	}
	return a.store(ctx, types)
}

// Invalidate drops the cached directory
func (a *CachedExaminationTypeAdapter) Invalidate(ctx context.Context) error {
	return a.cache.Delete(ctx, examinationTypesCacheKey)
}

func (a *CachedExaminationTypeAdapter) store(ctx context.Context, types []*entities.ExaminationType) error {
	data, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return a.cache.Set(ctx, examinationTypesCacheKey, data, a.ttlSeconds)
}
