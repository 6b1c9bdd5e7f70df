package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/config"
	"github.com/cfolkers/caribou-portal/internal/arcgis"
	"github.com/cfolkers/caribou-portal/internal/handler"
	"github.com/cfolkers/caribou-portal/internal/httpserver"
	"github.com/cfolkers/caribou-portal/internal/repository"
	"github.com/cfolkers/caribou-portal/internal/service/auth"
	"github.com/cfolkers/caribou-portal/internal/service/engagement"
	"github.com/cfolkers/caribou-portal/internal/service/override"
	"github.com/cfolkers/caribou-portal/internal/service/pmbok"
	"github.com/cfolkers/caribou-portal/internal/service/portfolio"
	"github.com/cfolkers/caribou-portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting caribou-portal...",
		zap.String("s3_endpoint", cfg.S3.Endpoint),
		zap.String("bucket", cfg.S3.Bucket),
		zap.String("port", cfg.Server.Port),
	)

	// Object storage
	blobStore, err := repository.NewS3BlobStore(cfg.S3)
	if err != nil {
		log.Fatal("Failed to init object storage client", zap.Error(err))
	}
	snapshotRepo := repository.NewSnapshotRepository(blobStore, cfg.S3.ProjectsPath, log)
	overrideRepo := repository.NewOverrideRepository(blobStore, cfg.S3.StatusPath, log)

	// Feature service client; the token is generated once and never
	// refreshed, so an expired session surfaces as empty query results.
	client := arcgis.NewClient(cfg.ArcGIS, log)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := client.GenerateToken(ctx, cfg.ArcGIS.Username, cfg.ArcGIS.Password); err != nil {
		log.Error("Feature service token generation failed, queries will return empty results", zap.Error(err))
	}
	cancel()

	// Optional snapshot cache
	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer cache.Close()
	}

	// Services
	engagementService := engagement.NewService(
		client,
		cfg.ArcGIS.ProjectsTableURL,
		cfg.ArcGIS.ResourcesTableURL,
		cfg.Analysis.ProgramPrefix,
		cfg.Analysis.ProgramKeyword,
		log,
	)
	overrideService := override.NewService(overrideRepo, log)
	engine := pmbok.NewEngine()
	portfolioService := portfolio.NewService(
		engagementService,
		overrideService,
		snapshotRepo,
		engine,
		cache,
		cfg.Redis.SnapshotTTL,
		cfg.Auth.OperatorName,
		log,
	)
	authService := auth.NewService(cfg.Auth)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	dashboardHandler := handler.NewDashboardHandler(portfolioService, cfg.Analysis.SearchPerson, log)
	overrideHandler := handler.NewOverrideHandler(overrideService, portfolioService, log)

	router := httpserver.NewRouter(authHandler, dashboardHandler, overrideHandler, authService, log)

	log.Info("caribou-portal listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
