// Package database opens GORM connections to PostgreSQL/TimescaleDB.
package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormLogger adapts a zap logger for GORM. Only warnings and slow
// queries are logged; record-not-found is an expected lookup miss.
func NewGormLogger(zl *zap.Logger) logger.Interface {
	return logger.New(
		zap.NewStdLog(zl),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// CreateConnection opens a database connection with the standard GORM
// configuration
func CreateConnection(connectionString string, zl *zap.Logger) (*gorm.DB, error) {
	sugar := zl.Sugar()

	sugar.Infow("connecting to TimescaleDB...")
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: NewGormLogger(zl)})
	if err != nil {
		sugar.Warnw("unable to create a TimescaleDB connection", "error", err)
		return nil, err
	}
	sugar.Infow("TimescaleDB connection successful")

	return db, nil
}
