package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"airdrop-backend/internal/common/config"
	"airdrop-backend/internal/common/logger"
)

// NewClient creates a go-redis client and pings it to validate the
// connection.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info().
		Str("addr", cfg.RedisAddr()).
		Int("db", cfg.Redis.DB).
		Msg("Redis client initialized")

	return client, nil
}
