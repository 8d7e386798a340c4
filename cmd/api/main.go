package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kvitkova/kvitkova-backend/api/routes"
	"github.com/kvitkova/kvitkova-backend/internal/auth"
	"github.com/kvitkova/kvitkova-backend/internal/listings"
	"github.com/kvitkova/kvitkova-backend/internal/orders"
	"github.com/kvitkova/kvitkova-backend/internal/profiles"
	"github.com/kvitkova/kvitkova-backend/pkg/auth/session"
	"github.com/kvitkova/kvitkova-backend/pkg/config"
	"github.com/kvitkova/kvitkova-backend/pkg/db"
	"github.com/kvitkova/kvitkova-backend/pkg/logger"
	"github.com/kvitkova/kvitkova-backend/pkg/maps"
	"github.com/kvitkova/kvitkova-backend/pkg/metrics"
	"github.com/kvitkova/kvitkova-backend/pkg/migrate"
	"github.com/kvitkova/kvitkova-backend/pkg/redis"
	"github.com/kvitkova/kvitkova-backend/pkg/storage/gcs"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()
	bucket := gcsClient.BucketHandle(cfg.Storage.BucketName)

	var geocoderClient *maps.Client
	if cfg.GoogleMaps.APIKey != "" {
		geocoderClient, err = maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "maps api key missing, shops register without coordinates")
	}

	profilesRepo := profiles.NewRepository(dbClient.DB())
	listingsRepo := listings.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	profileParams := profiles.ServiceParams{
		Repo:    profilesRepo,
		Avatars: bucket,
		Logger:  logg,
	}
	if geocoderClient != nil {
		profileParams.Geocoder = geocoderClient
	}
	profileService, err := profiles.NewService(profileParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	authParams := auth.ServiceParams{
		Profiles:       profilesRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	}
	if geocoderClient != nil {
		authParams.Geocoder = geocoderClient
	}
	authService, err := auth.NewService(authParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	listingService, err := listings.NewService(listings.ServiceParams{
		Repo:    listingsRepo,
		Shops:   profilesRepo,
		Photos:  bucket,
		Catalog: cfg.Catalog,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create listing service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:   ordersRepo,
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Metrics:  httpMetrics,
			Auth:     authService,
			Profiles: profileService,
			Listings: listingService,
			Orders:   orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
