package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/vnaddress/parser/app/controllers"
	"github.com/vnaddress/parser/internal/cache"
	"github.com/vnaddress/parser/internal/config"
	"github.com/vnaddress/parser/internal/pipeline"
	"github.com/vnaddress/parser/internal/referencestore"
	reviewstore "github.com/vnaddress/parser/internal/store/mongo"
	"github.com/vnaddress/parser/internal/serverconfig"
	"github.com/vnaddress/parser/routes"
)

func main() {
	// Load the HTTP surface's own configuration (ports, DSNs)
	srvCfg, err := serverconfig.Load(os.Getenv("VNADDR_SERVER_CONFIG"))
	if err != nil {
		panic(err)
	}

	// Load the core's configuration (fuzzy thresholds, weights, ...)
	coreCfg := config.Default()
	if srvCfg.CoreConfigPath != "" {
		if loaded, err := config.Load(srvCfg.CoreConfigPath); err == nil {
			coreCfg = loaded
		}
	}

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting Address Parser Service...")

	source, err := buildDataSource(srvCfg, logger)
	if err != nil {
		logger.Fatal("Failed to build reference data source", zap.Error(err))
	}

	parser := pipeline.New(source, coreCfg, logger)

	if srvCfg.MeiliHost != "" {
		accel, err := referencestore.NewMeiliAccelerator(referencestore.MeiliConfig{
			Host: srvCfg.MeiliHost, APIKey: srvCfg.MeiliAPIKey, IndexName: "admin_units", Timeout: 30 * time.Second,
		}, logger)
		if err != nil {
			logger.Warn("Meilisearch unavailable, falling back to the in-memory token index", zap.Error(err))
		} else {
			parser.UseMeiliAccelerator(accel)
		}
	}

	var resultCache *cache.RedisResultCache
	if srvCfg.EnableCache && srvCfg.RedisURL != "" {
		resultCache, err = cache.NewRedisResultCache(srvCfg.RedisURL, 24*time.Hour, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer resultCache.Close()
	}

	var review *reviewstore.ReviewSink
	if srvCfg.EnableReview && srvCfg.MongoURI != "" {
		mongoClient, err := initMongoDB(srvCfg.MongoURI, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
			}
		}()

		review, err = reviewstore.NewReviewSink(mongoClient.Database("vnaddress"))
		if err != nil {
			logger.Fatal("Failed to create review sink", zap.Error(err))
		}
	}

	addressController := controllers.NewAddressController(parser, resultCache, review, logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	routes.SetupAllRoutes(router, addressController)

	srv := &http.Server{Addr: ":" + srvCfg.Port, Handler: router}
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", srvCfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server exited")
}

// buildDataSource prefers Postgres when configured, falls back to a JSON
// seed file, and otherwise starts with an empty in-memory gazetteer.
func buildDataSource(srvCfg serverconfig.ServerConfig, logger *zap.Logger) (referencestore.DataSource, error) {
	if srvCfg.PostgresDSN != "" {
		logger.Info("Loading reference data from Postgres")
		return referencestore.NewPostgresDataSource(srvCfg.PostgresDSN)
	}
	if srvCfg.GazetteerSeed != "" {
		logger.Info("Loading reference data from seed file", zap.String("path", srvCfg.GazetteerSeed))
		return referencestore.LoadSeedFile(srvCfg.GazetteerSeed)
	}
	logger.Warn("No reference data source configured, starting with an empty gazetteer")
	return referencestore.StaticDataSource{}, nil
}

func initMongoDB(uri string, logger *zap.Logger) (*mongo.Client, error) {
	logger.Info("Connecting to MongoDB", zap.String("uri", uri))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB")
	return client, nil
}
