package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Schema is the postgres schema every dashboard table lives in.
const Schema = "dashboard"

var DB *gorm.DB

// Connect opens the postgres database and stores the handle in DB. It exits
// the process when the database is unreachable.
func Connect(dsn string) {
	if dsn == "" {
		zap.L().Fatal("DATABASE_URL is empty")
	}

	d, err := Open(dsn)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	DB = d
	zap.L().Info("Connected to database")
}

// Open connects to postgres, ensures the dashboard schema and applies the pool
// defaults.
func Open(dsn string) (*gorm.DB, error) {
	d, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         NewLogger(),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{TablePrefix: Schema + "."},
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := EnsureSchema(d, Schema); err != nil {
		return nil, fmt.Errorf("ensure schema %s: %w", Schema, err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return d, nil
}

// NewLogger routes gorm's SQL log through the global zap logger.
func NewLogger() logger.Interface {
	return logger.New(
		zap.NewStdLog(zap.L().Named("gorm")),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond, // log queries > 100ms
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Ping checks the database connection behind DB.
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
