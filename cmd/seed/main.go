package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/cache"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/database"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/memory"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/observability"
	"github.com/zatekoja/screeningscheduler/backend/pkg/config"
)

const slotBatchSize = 500

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("screening-scheduler-seed", cfg.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	ctx := context.Background()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE time_slots, examination_types`); err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate tables")
		}
	}

	typeAdapter := database.NewExaminationTypeAdapter(pgClient)
	types := memory.CatalogTypes()
	for _, examinationType := range types {
		if err := typeAdapter.Create(ctx, examinationType); err != nil {
			log.Fatal().Err(err).Str("name", examinationType.Name).Msg("Failed to seed examination type")
		}
	}
	log.Info().Int("count", len(types)).Msg("Seeded examination types")

	slotAdapter := database.NewSlotAdapter(pgClient)
	slots := memory.GenerateSlots(time.Now(), cfg.Scheduling.SeedDays)
	for start := 0; start < len(slots); start += slotBatchSize {
		end := min(start+slotBatchSize, len(slots))
		if err := slotAdapter.Create(ctx, slots[start:end]); err != nil {
			log.Fatal().Err(err).Int("offset", start).Msg("Failed to seed slots")
		}
	}
	log.Info().Int("count", len(slots)).Int("days", cfg.Scheduling.SeedDays).Msg("Seeded time slots")

	// The API caches the directory; drop the cached copy so new types show up immediately
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping cache invalidation")
			return
		}
		defer redisClient.Close()

		cached := database.NewCachedExaminationTypeAdapter(typeAdapter, cache.NewRedisAdapter(redisClient), cfg.Scheduling.TypeCacheTTLSeconds, nil)
		if err := cached.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate examination type cache")
		}
	}
}
