package main

import (
	"os"

	"github.com/ericogr/fleet-clash/internal/api"
	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/logging"
	"github.com/ericogr/fleet-clash/internal/realtime"
	"github.com/ericogr/fleet-clash/internal/service"
	"github.com/ericogr/fleet-clash/internal/version"

	"github.com/gin-gonic/gin"
)

func main() {
	// The config path may be provided via FLEET_CLASH_CONFIG; without it
	// ./fleet-clash.yaml is used when present, else built-in defaults.
	configPath := os.Getenv(constants.EnvConfigPath)
	cfg := loadConfigOrExit(configPath)
	logging.SetLevel(cfg.LogLevel)

	// FLEET_CLASH_DB overrides the configured database path.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	repo := createRepositoryOrExit(dbPath)

	svc := service.NewMatchService(repo, service.Options{
		StartingLives: cfg.StartingLives,
		MaxFleetSize:  cfg.MaxFleetSize,
	})
	hub := realtime.NewHub(cfg.PingInterval, cfg.AllowedOrigins)
	notifier := realtime.NewNotifier(hub, svc)
	svc.SetNotifier(notifier)

	if os.Getenv(constants.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewMatchHandler(svc, hub, notifier), api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
	})

	logging.Info("Server starting", logging.Fields{
		constants.LogFieldAddr: cfg.ServerAddress,
		"version":              version.Version,
		"commit":               version.Commit,
	})
	if err := runServer(cfg.ServerAddress, router); err != nil {
		logging.Fatal("Server stopped with error", err, nil)
	}
	logging.Info("Server stopped", nil)
}
