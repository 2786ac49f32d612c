package storage

import (
	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite database at dataSourceName and keeps the
// schema up to date via AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// sqlite allows one writer at a time; a single pooled connection
	// queues writers in-process instead of failing with SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&game.Room{}, &game.Player{}, &game.MatchState{}, &game.FleetArchive{})
	if err != nil {
		return nil, err
	}
	logging.Debug("database migrated", logging.Fields{"dsn": dataSourceName})
	return db, nil
}
