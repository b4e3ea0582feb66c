package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheWarmer reloads one cached dataset from its source
type CacheWarmer interface {
	Warm(ctx context.Context) error
}

// CacheWarmingService keeps rarely changing datasets hot in the cache
type CacheWarmingService struct {
	warmers map[string]CacheWarmer
	names   []string
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService() *CacheWarmingService {
	return &CacheWarmingService{
		warmers: make(map[string]CacheWarmer),
	}
}

// Register adds a named warmer. Registering a name twice replaces the earlier warmer.
func (s *CacheWarmingService) Register(name string, warmer CacheWarmer) {
	if _, exists := s.warmers[name]; !exists {
		s.names = append(s.names, name)
	}
	s.warmers[name] = warmer
}

// WarmCache runs every warmer once. A failing warmer does not stop the others.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	var errs []error
	for _, name := range s.names {
		if err := s.warmers[name].Warm(ctx); err != nil {
			log.Warn().Err(err).Str("cache", name).Msg("Cache warming failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		log.Debug().Str("cache", name).Msg("Cache warmed")
	}
	return errors.Join(errs...)
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	if err := s.WarmCache(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial cache warming failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					log.Warn().Err(err).Msg("Periodic cache warming failed")
				}
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
