package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ericogr/fleet-clash/internal/config"
	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/logging"
	"github.com/ericogr/fleet-clash/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	explicit := path != ""
	if !explicit {
		path = constants.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err == nil {
		return cfg
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		logging.Info("No configuration file found; using defaults", logging.Fields{"config_path": path})
		return config.Default()
	}
	logging.Fatal("Missing or invalid fleet-clash configuration", err, logging.Fields{"config_path": path})
	return nil
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatal("Failed to create database directory", err, logging.Fields{"dir": dir})
		}
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}
