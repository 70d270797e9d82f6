package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/filecrate/filecrate/internal/config"
	"github.com/filecrate/filecrate/internal/store"
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})
	logger := log.WithField("service", "store")

	cfg := config.Load()

	if cfg.Store.APIKey == "" {
		logger.Fatal("API key must be set via STORE_API_KEY or config file")
	}

	var paths store.PathResolver
	if cfg.S3.Enabled {
		s3Paths, err := store.NewS3Paths(cfg.S3)
		if err != nil {
			logger.WithError(err).Fatal("failed to configure S3 paths")
		}
		paths = s3Paths
	} else {
		if err := os.MkdirAll(cfg.Store.BasePath, 0755); err != nil {
			logger.WithError(err).Fatal("failed to create storage directory")
		}
		paths = store.NewLocalPaths(cfg.Store.BasePath)
	}

	repo, err := store.NewRepository(cfg.Store.Database, paths)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer repo.Close()

	api := store.NewAPI(repo, cfg.Store.APIKey)

	router := gin.Default()
	api.RegisterRoutes(router)

	logger.WithField("port", cfg.Store.Port).Info("starting store")
	if err := router.Run(":" + cfg.Store.Port); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}
