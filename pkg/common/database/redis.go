package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wellmate-ai/wellmate/pkg/common/config"
	"github.com/wellmate-ai/wellmate/pkg/common/logger"
)

// NewRedis builds a client from the given config and pings it once. A failed
// ping is logged but not fatal; the cache degrades to pass-through.
func NewRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, result cache disabled")
	} else {
		logger.Log.Info("Connected to Redis")
	}
	return client
}
