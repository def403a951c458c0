package database

import (
	"context"
	"fmt"
	"time"

	"fitness-duel-system/config"
	"fitness-duel-system/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	maxRetries    = 3
	retryInterval = 5 * time.Second
)

// OpenPostgres connects to DATABASE_URL, retrying a few times while the
// database comes up.
func OpenPostgres(cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	var err error
	for i := 0; i <= maxRetries; i++ {
		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
		if err == nil {
			return db, nil
		}
		logger.Error("database connection failed, retrying", zap.Int("retry", i), zap.Error(err))
		if i < maxRetries {
			time.Sleep(retryInterval)
		}
	}
	return nil, fmt.Errorf("failed to connect to database: %w", err)
}

// Migrate creates or updates the tables the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Duel{},
		&models.ProgressHistory{},
	)
}

// OpenRedis returns nil when no address is configured.
func OpenRedis(ctx context.Context, cfg config.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return nil, err
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	return rdb, nil
}
