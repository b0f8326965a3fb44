package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/karunasetu/karuna-backend/api/routes"
	adminauth "github.com/karunasetu/karuna-backend/internal/auth"
	"github.com/karunasetu/karuna-backend/internal/celebrations"
	"github.com/karunasetu/karuna-backend/internal/gallery"
	"github.com/karunasetu/karuna-backend/internal/orders"
	"github.com/karunasetu/karuna-backend/internal/roster"
	"github.com/karunasetu/karuna-backend/internal/uploads"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/db"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/migrate"
	"github.com/karunasetu/karuna-backend/pkg/redis"
	"github.com/karunasetu/karuna-backend/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	verifier, err := adminauth.NewVerifier(context.Background(), cfg.Admin, cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin verifier", err)
		os.Exit(1)
	}

	localStore := storage.NewLocalStore(cfg.Uploads)
	resolver := storage.NewResolver(cfg.Cloudinary, localStore, logg)
	pipeline := uploads.NewPipeline(resolver, logg)

	conn := dbClient.DB()
	galleryService := gallery.NewService(conn, resolver, pipeline, logg)
	rosterService := roster.NewService(conn, resolver, pipeline, logg)
	celebrationService := celebrations.NewService(conn, resolver, pipeline, logg)
	orderService := orders.NewService(conn, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": string(resolver.Backend()),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			verifier,
			galleryService,
			rosterService,
			celebrationService,
			orderService,
			localStore,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
