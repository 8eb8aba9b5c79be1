package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rentfage/property-service/internal/adapter/memory"
	mongoadapter "github.com/rentfage/property-service/internal/adapter/mongo"
	natsadapter "github.com/rentfage/property-service/internal/adapter/nats"
	redisadapter "github.com/rentfage/property-service/internal/adapter/redis"
	"github.com/rentfage/property-service/internal/app/config"
	"github.com/rentfage/property-service/internal/identity"
	httpserver "github.com/rentfage/property-service/internal/port/http"
	"github.com/rentfage/property-service/internal/platform/logger"
	"github.com/rentfage/property-service/internal/platform/metrics"
	"github.com/rentfage/property-service/internal/service"
)

type App struct {
	cfg     *config.Config
	log     logger.Logger
	server  *httpserver.Server
	metrics *metrics.Metrics

	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP port=%s", cfg.Env, cfg.HTTPServer.Port)

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized")

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Warnf("Redis unavailable, running without listing cache: %v", err)
		redisClient = nil
	}

	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Warnf("NATS unavailable, domain events disabled: %v", err)
		natsConn = nil
	}
	var publisher natsadapter.MessagePublisher
	if natsConn != nil {
		publisher, err = natsadapter.NewPublisher(natsConn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
	}

	listingStore := mongoadapter.NewListingStore(ctx, mongoClient, cfg.MongoDB, appLogger)
	requestStore := memory.NewRequestStore()

	var cache *redisadapter.ListingCache
	if redisClient != nil {
		cache = redisadapter.NewListingCache(redisClient, cfg.ListingCache.TTL)
	}

	appMetrics := metrics.New("property_service")

	catalog := service.NewCatalogService(listingStore, cache, appLogger)
	listings := service.NewListingService(catalog, appMetrics, appLogger)
	requests := service.NewRequestService(requestStore, identity.ContextProvider{}, publisher, appMetrics, appLogger)

	if err := catalog.SeedIfEmpty(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed listings: %w", err)
	}

	handler := httpserver.NewHandler(catalog, listings, requests, appLogger)
	server := httpserver.NewServer(cfg.HTTPServer, handler, cfg.JWT.Secret, appLogger)

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		metrics:     appMetrics,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	go func() {
		if err := metrics.StartServer(a.cfg.Metrics.Port, a.log, a.metrics.Registry); err != nil {
			a.log.Errorf("Metrics server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v, shutting down", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server shutdown: %v", err)
	}

	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}

	a.log.Info("Application shut down")
}
