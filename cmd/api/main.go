package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/cache"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/database"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/events"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/memory"
	"github.com/zatekoja/screeningscheduler/backend/internal/api/handlers"
	"github.com/zatekoja/screeningscheduler/backend/internal/api/routes"
	"github.com/zatekoja/screeningscheduler/backend/internal/application/services"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/providers"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/repositories"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/observability"
	"github.com/zatekoja/screeningscheduler/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Optional Redis: directory cache and cross-instance slot events
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without cache and with in-process events")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		eventBus = memory.NewEventBus()
	}

	var (
		slotRepo repositories.SlotRepository
		typeRepo repositories.ExaminationTypeRepository
	)
	switch cfg.Scheduling.SlotStore {
	case config.SlotStoreMemory:
		store := memory.NewSeededSlotStore(time.Now(), cfg.Scheduling.SeedDays)
		slotRepo, typeRepo = store, store
		log.Info().Int("days", cfg.Scheduling.SeedDays).Msg("Using in-memory slot store")
	default:
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()

		slotRepo = database.NewBreakerSlotAdapter(
			database.NewSlotAdapter(pgClient),
			cfg.Breaker.MaxFailures,
			cfg.Breaker.OpenTimeout(),
		)
		typeRepo = database.NewExaminationTypeAdapter(pgClient)
		if redisClient != nil {
			cachedTypes := database.NewCachedExaminationTypeAdapter(
				typeRepo,
				cache.NewRedisAdapter(redisClient),
				cfg.Scheduling.TypeCacheTTLSeconds,
				metrics,
			)
			typeRepo = cachedTypes

			warmer := services.NewCacheWarmingService()
			warmer.Register("examination_types", cachedTypes)
			warmInterval := time.Duration(cfg.Scheduling.TypeCacheTTLSeconds) * time.Second / 2
			if warmInterval <= 0 {
				warmInterval = time.Minute
			}
			warmer.StartPeriodicWarming(ctx, warmInterval)
		}
	}

	schedulingService := services.NewSchedulingService(
		slotRepo,
		typeRepo,
		eventBus,
		metrics,
		cfg.Scheduling.RebookBufferMinutes,
	)

	router := routes.NewRouter(
		handlers.NewScheduleHandler(schedulingService),
		handlers.NewSlotEventsHandler(eventBus),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		// Cancelling ctx ends open event streams so Shutdown can drain
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("slot_store", cfg.Scheduling.SlotStore).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}

	log.Info().Msg("Server stopped")
}
