package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/filecrate/filecrate/internal/config"
	"github.com/filecrate/filecrate/internal/gateway"
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})
	logger := log.WithField("service", "gateway")

	cfg := config.Load()

	timeout := time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	store := gateway.NewStoreClient(cfg.Gateway.StoreURL, cfg.Gateway.StoreAPIKey, timeout)
	api := gateway.NewAPI(store)

	router := gin.Default()
	api.RegisterRoutes(router)

	logger.WithFields(log.Fields{
		"port":  cfg.Gateway.Port,
		"store": cfg.Gateway.StoreURL,
	}).Info("starting gateway")
	if err := router.Run(":" + cfg.Gateway.Port); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}
