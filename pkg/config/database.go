package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vidflow/backend/pkg/logger"
)

// DB holds the database connection
type DB struct {
	Postgres *gorm.DB
}

// InitDB initializes and returns the database connection
func InitDB(cfg *Config) (*DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	logger.Log.Info("Successfully connected to PostgreSQL")
	return &DB{Postgres: db}, nil
}

// CloseDB closes the database connection
func (db *DB) CloseDB() {
	if db.Postgres == nil {
		return
	}
	sqlDB, err := db.Postgres.DB()
	if err != nil {
		logger.Log.Error("Error getting SQL DB from GORM: " + err.Error())
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Log.Error("Error closing PostgreSQL connection: " + err.Error())
	} else {
		logger.Log.Info("PostgreSQL connection closed")
	}
}
