// main.go
package main

import (
	"context"
	"log"
	"time"

	"bookstore-api/cmd"
	"bookstore-api/internal/data/cache"
	"bookstore-api/internal/data/repository"
	"bookstore-api/internal/wire"
	"bookstore-api/pkg/database"
	"bookstore-api/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to the configured store
	repos, closeStore := openStore(config, logger)
	defer closeStore()

	// Profile cache, disabled without REDIS_ADDR
	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	}
	profiles := cache.NewProfileCache(rdb, config.Redis.ProfileTTL, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, profiles, config, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}

func openStore(config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	switch config.Database.Driver {
	case "mongo":
		client, db, err := database.InitMongo(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to mongo", zap.Error(err))
		}
		logger.Info("MongoDB connected", zap.String("database", config.Database.Name))

		return repository.NewMongoRepository(db, logger), func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.Warn("Failed to disconnect mongo", zap.Error(err))
			}
		}

	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore().Repository(), func() {}

	default:
		if config.Database.MigrationsEnabled {
			if err := database.RunMigrations(config.Database, logger); err != nil {
				logger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}

		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		logger.Info("Database connected successfully")

		return repository.NewRepository(db, logger), db.Close
	}
}
