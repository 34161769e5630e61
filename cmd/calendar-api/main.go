package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/finedust/calendar-builder/api/swagger"
	"github.com/finedust/calendar-builder/internal/bootstrap"
	"github.com/finedust/calendar-builder/internal/handler"
	"github.com/finedust/calendar-builder/internal/middleware"
	"github.com/finedust/calendar-builder/internal/service"
	"github.com/finedust/calendar-builder/pkg/config"
	"github.com/finedust/calendar-builder/pkg/logger"
	corsmiddleware "github.com/finedust/calendar-builder/pkg/middleware/cors"
	reqidmiddleware "github.com/finedust/calendar-builder/pkg/middleware/requestid"
)

// @title Calendar Builder API
// @version 0.1.0
// @description Lecture calendars built from the university open-data timetables
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.NewStore(cfg.Storage)
	if err != nil {
		logr.Fatal("failed to open storage", zap.Error(err))
	}
	app, err := bootstrap.New(ctx, cfg, store, logr)
	if err != nil {
		logr.Fatal("failed to wire services", zap.Error(err))
	}
	defer app.Close() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.Metrics, "/health", "/ready", "/metrics"))

	checks := map[string]handler.Pinger{}
	if app.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(app.Metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	calendarHandler := handler.NewCalendarHandler(app.Calendar, app.Exports, app.Location, logr)
	api := r.Group(cfg.APIPrefix)
	api.GET("/curricula", calendarHandler.ListCurricula)
	api.GET("/lectures", calendarHandler.ListLectures)
	api.GET("/calendar", calendarHandler.Calendar)
	api.POST("/exports", calendarHandler.CreateExport)
	api.GET("/exports/download", calendarHandler.DownloadExport)
	api.DELETE("/cache", handler.NewCacheHandler(app.Datastore).Purge)

	go cleanupLoop(ctx, app.Exports, cfg.Exports.CleanupInterval, logr)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// cleanupLoop removes expired exports until ctx is done.
func cleanupLoop(ctx context.Context, exports *service.ExportService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := exports.Cleanup(0)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(deleted)))
			}
		}
	}
}
