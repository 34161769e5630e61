// Package bootstrap wires the datastore, caches, storage and services shared by
// the command line tool and the API server.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/finedust/calendar-builder/internal/repository"
	"github.com/finedust/calendar-builder/internal/service"
	"github.com/finedust/calendar-builder/pkg/cache"
	"github.com/finedust/calendar-builder/pkg/config"
	"github.com/finedust/calendar-builder/pkg/storage"
)

// App holds the wired services.
type App struct {
	Metrics   *service.MetricsService
	Cache     *service.CacheService
	Datastore *repository.CachedDatastore
	Calendar  *service.CalendarService
	Exports   *service.ExportService
	Redis     *redis.Client
	Location  *time.Location
}

// NewStore opens the configured export storage.
func NewStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "", config.StorageDriverLocal:
		store, err := storage.NewLocalStorage(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDriverMinIO:
		store, err := storage.NewObjectStorage(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// New builds the services on top of store. A failing Redis only disables the shared cache.
func New(ctx context.Context, cfg *config.Config, store storage.Store, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(cfg.Datastore.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Datastore.Timezone, err)
	}

	metrics := service.NewMetricsService()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, continuing without shared cache", zap.Error(err))
		redisClient = nil
	}
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, logger), metrics, cfg.Cache.TTL, logger, redisClient != nil)

	client := repository.NewDatastoreClient(cfg.Datastore.URL, nil, cfg.Datastore.Timeout, metrics, logger)
	fetcher := repository.NewCachedDatastore(client, cfg.Cache.MemorySize, cacheSvc, cfg.Cache.TTL, logger)

	curricula := repository.NewCurriculumRepository(fetcher)
	calendar := service.NewCalendarService(service.CalendarRepositories{
		Curricula:  curricula,
		Plans:      curricula,
		Teachings:  repository.NewTeachingRepository(fetcher),
		Timetables: repository.NewTimetableRepository(fetcher, loc),
		Rooms:      repository.NewRoomRepository(fetcher),
	}, validator.New(), metrics, logger)

	exports := service.NewExportService(store,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
		metrics, logger)

	return &App{
		Metrics:   metrics,
		Cache:     cacheSvc,
		Datastore: fetcher,
		Calendar:  calendar,
		Exports:   exports,
		Redis:     redisClient,
		Location:  loc,
	}, nil
}

// Close releases the Redis connection, if any.
func (a *App) Close() error {
	if a == nil || a.Redis == nil {
		return nil
	}
	return a.Redis.Close()
}
